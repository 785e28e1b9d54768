// Command validate provides a small CLI that validates stored session JSON
// documents in the ../sessions directory (or a directory given as the first
// argument). It checks:
//   - JSON structure and required fields
//   - Board shape: 16 cards covering positions A1..D4 exactly once, IDs 1..16
//   - Pairing: 8 distinct categories, each on exactly two cards
//   - Move log consistency: valid positions, categories matching the board,
//     isMatch flags, and attempts == recorded moves
//   - Matched-pair bookkeeping against the card flags
//   - Completion consistency between isCompleted, matched cards, and endTime
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Document mirrors the persisted JSON schema for a session.
type Document struct {
	SessionKey   string      `json:"sessionKey"`
	Theme        string      `json:"theme"`
	Cards        []Card      `json:"cards"`
	Moves        []Move      `json:"moves"`
	Attempts     int         `json:"attempts"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      *time.Time  `json:"endTime"`
	IsCompleted  bool        `json:"isCompleted"`
	MatchedPairs [][2]string `json:"matchedPairs"`
}

// Card mirrors one persisted card.
type Card struct {
	ID         int    `json:"id"`
	Category   string `json:"category"`
	Position   string `json:"position"`
	IsMatched  bool   `json:"isMatched"`
	IsRevealed bool   `json:"isRevealed"`
}

// Move mirrors one persisted move.
type Move struct {
	Cards      [2]string `json:"cards"`
	Categories [2]string `json:"categories"`
	IsMatch    bool      `json:"isMatch"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	boardSize     = 16
	categoryCount = 8
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// allPositions returns the 16 board coordinates A1..D4.
func allPositions() []string {
	positions := make([]string, 0, boardSize)
	for _, row := range "ABCD" {
		for col := 1; col <= 4; col++ {
			positions = append(positions, fmt.Sprintf("%c%d", row, col))
		}
	}
	return positions
}

// validateDocument loads and validates a single session JSON file.
func validateDocument(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Identity fields
	if doc.SessionKey == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "sessionKey is empty")
	} else if !keyPattern.MatchString(doc.SessionKey) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("sessionKey %q contains characters outside a-z, 0-9, '-', '_'", doc.SessionKey))
	}
	if doc.Theme == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "theme is empty")
	}
	if doc.StartTime.IsZero() {
		result.Valid = false
		result.Errors = append(result.Errors, "startTime is missing")
	}

	// Board shape
	if len(doc.Cards) != boardSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Expected %d cards, got %d", boardSize, len(doc.Cards)))
		return result
	}

	validPositions := make(map[string]bool, boardSize)
	for _, pos := range allPositions() {
		validPositions[pos] = true
	}

	cardAt := make(map[string]Card, boardSize)
	seenIDs := make(map[int]bool, boardSize)
	categoryCounts := make(map[string]int)
	matchedCards := 0

	for _, card := range doc.Cards {
		if !validPositions[card.Position] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Card %d has invalid position %q", card.ID, card.Position))
			continue
		}
		if _, dup := cardAt[card.Position]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate card position %s", card.Position))
		}
		cardAt[card.Position] = card

		if card.ID < 1 || card.ID > boardSize {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Card ID %d out of range 1..%d", card.ID, boardSize))
		} else if seenIDs[card.ID] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate card ID %d", card.ID))
		}
		seenIDs[card.ID] = true

		if card.Category == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Card at %s has an empty category", card.Position))
		}
		categoryCounts[card.Category]++
		if card.IsMatched {
			matchedCards++
		}
	}

	if len(categoryCounts) != categoryCount {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Expected %d distinct categories, got %d", categoryCount, len(categoryCounts)))
	}
	for category, count := range categoryCounts {
		if count != 2 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Category %q appears on %d cards, expected 2", category, count))
		}
	}

	// Move log
	if doc.Attempts != len(doc.Moves) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("attempts (%d) does not equal recorded moves (%d)", doc.Attempts, len(doc.Moves)))
	}

	for i, move := range doc.Moves {
		if move.Cards[0] == move.Cards[1] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Move %d reveals the same position twice (%s)", i+1, move.Cards[0]))
		}
		for j, pos := range move.Cards {
			card, ok := cardAt[pos]
			if !ok {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Move %d references unknown position %q", i+1, pos))
				continue
			}
			if card.Category != move.Categories[j] {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Move %d recorded category %q at %s, board has %q", i+1, move.Categories[j], pos, card.Category))
			}
		}
		if move.IsMatch != (move.Categories[0] == move.Categories[1]) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Move %d isMatch=%v contradicts its categories %q and %q", i+1, move.IsMatch, move.Categories[0], move.Categories[1]))
		}
	}

	// Matched-pair bookkeeping
	if matchedCards != 2*len(doc.MatchedPairs) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("%d cards flagged matched but %d pairs recorded", matchedCards, len(doc.MatchedPairs)))
	}
	for i, pair := range doc.MatchedPairs {
		a, okA := cardAt[pair[0]]
		b, okB := cardAt[pair[1]]
		if !okA || !okB {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Matched pair %d references an unknown position", i+1))
			continue
		}
		if a.Category != b.Category {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Matched pair %d joins different categories %q and %q", i+1, a.Category, b.Category))
		}
		if !a.IsMatched || !b.IsMatched {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Matched pair %d includes a card not flagged matched", i+1))
		}
	}

	// Completion consistency
	allMatched := matchedCards == boardSize
	if doc.IsCompleted != allMatched {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("isCompleted=%v but %d/%d cards matched", doc.IsCompleted, matchedCards, boardSize))
	}
	if doc.IsCompleted {
		if doc.EndTime == nil {
			result.Valid = false
			result.Errors = append(result.Errors, "Completed game has no endTime")
		} else if doc.EndTime.Before(doc.StartTime) {
			result.Valid = false
			result.Errors = append(result.Errors, "endTime is before startTime")
		}
	} else if doc.EndTime != nil {
		result.Valid = false
		result.Errors = append(result.Errors, "Running game has an endTime")
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Session: %s", doc.SessionKey))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Theme: %s", doc.Theme))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Attempts: %d", doc.Attempts))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Matched pairs: %d/%d", len(doc.MatchedPairs), categoryCount))
		if doc.IsCompleted && doc.EndTime != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Completed in %s", doc.EndTime.Sub(doc.StartTime).Round(time.Millisecond)))
		} else {
			result.Errors = append(result.Errors, "✓ Game in progress")
		}
	}

	return result
}

// main scans the session directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	sessionDir := "../sessions"
	if len(os.Args) > 1 {
		sessionDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(sessionDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding session files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No session files found in %s\n", sessionDir)
		return
	}

	allValid := true
	for _, file := range files {
		result := validateDocument(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All session documents are consistent!")
	} else {
		fmt.Println("❌ Some session documents have errors")
		os.Exit(1)
	}
}

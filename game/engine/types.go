package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the face value printed on a card. Every game uses 8 distinct
// categories, each appearing on exactly two cards.
type Category string

// Position is a board coordinate: row letter A-D followed by column digit 1-4.
type Position string

const (
	// Board geometry
	BoardSize        = 16
	CategoryCount    = 8
	CardsPerCategory = 2
	GridRows         = "ABCD"
	GridColumns      = 4
)

// Move resolution errors. All of these indicate bad client input on an
// existing session, as opposed to the session itself being unknown.
var (
	ErrWrongCardCount    = errors.New("a move must reveal exactly two cards")
	ErrInvalidPosition   = errors.New("position is not on the board")
	ErrDuplicatePosition = errors.New("a move needs two distinct positions")
	ErrCardMatched       = errors.New("card is already matched")
	ErrGameCompleted     = errors.New("game is already completed")
)

// Card represents a single card on the board
type Card struct {
	ID         int      `json:"id"`
	Category   Category `json:"category"`
	Position   Position `json:"position"`
	IsMatched  bool     `json:"isMatched"`
	IsRevealed bool     `json:"isRevealed"`
}

// Move represents one resolved reveal of two cards
type Move struct {
	Cards      [2]Position `json:"cards"`
	Categories [2]Category `json:"categories"`
	IsMatch    bool        `json:"isMatch"`
	Timestamp  time.Time   `json:"timestamp"`
}

// GameState represents the complete state of one game. Its JSON field names
// are the persisted document layout and must not change.
type GameState struct {
	Cards        []Card        `json:"cards"`
	Moves        []Move        `json:"moves"`
	Attempts     int           `json:"attempts"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      *time.Time    `json:"endTime"`
	IsCompleted  bool          `json:"isCompleted"`
	MatchedPairs [][2]Position `json:"matchedPairs"`
}

// ParsePosition normalizes and validates a raw coordinate like "a1" or "D4".
func ParsePosition(raw string) (Position, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
	if !strings.ContainsRune(GridRows, rune(s[0])) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
	if s[1] < '1' || s[1] > '0'+GridColumns {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
	return Position(s), nil
}

// AllPositions returns the 16 board coordinates in assignment order:
// A1, A2, A3, A4, B1, ... D4.
func AllPositions() []Position {
	positions := make([]Position, 0, BoardSize)
	for _, row := range GridRows {
		for col := 1; col <= GridColumns; col++ {
			positions = append(positions, Position(fmt.Sprintf("%c%d", row, col)))
		}
	}
	return positions
}

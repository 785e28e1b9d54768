package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// ValidateCategories checks that a category set can deal a board: exactly 8
// distinct, non-empty values.
func ValidateCategories(categories []Category) error {
	if len(categories) != CategoryCount {
		return fmt.Errorf("deck validation: need exactly %d categories, got %d", CategoryCount, len(categories))
	}
	seen := make(map[Category]bool, CategoryCount)
	for _, c := range categories {
		if c == "" {
			return fmt.Errorf("deck validation: categories must not be empty")
		}
		if seen[c] {
			return fmt.Errorf("deck validation: duplicate category %q", c)
		}
		seen[c] = true
	}
	return nil
}

// NewDeck deals the 16-card board for one game. Each category is duplicated
// once, the 16 values are shuffled with an unbiased Fisher-Yates pass over
// the provided source, and the result is assigned to the fixed coordinate
// order A1..D4. Card IDs follow assignment order, 1 through 16.
func NewDeck(categories []Category, rng *rand.Rand) ([]Card, error) {
	if err := ValidateCategories(categories); err != nil {
		return nil, err
	}

	values := make([]Category, 0, BoardSize)
	for _, c := range categories {
		for i := 0; i < CardsPerCategory; i++ {
			values = append(values, c)
		}
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	cards := make([]Card, 0, BoardSize)
	for i, pos := range AllPositions() {
		cards = append(cards, Card{
			ID:       i + 1,
			Category: values[i],
			Position: pos,
		})
	}
	return cards, nil
}

// NewGameState starts a fresh game over the given categories. The rng drives
// the deal; pass a seeded source for a reproducible board.
func NewGameState(categories []Category, rng *rand.Rand) (*GameState, error) {
	cards, err := NewDeck(categories, rng)
	if err != nil {
		return nil, err
	}

	return &GameState{
		Cards:        cards,
		Moves:        []Move{},
		Attempts:     0,
		StartTime:    time.Now().UTC(),
		MatchedPairs: [][2]Position{},
	}, nil
}

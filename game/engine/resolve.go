package engine

import (
	"fmt"
	"time"
)

// CardAt returns the card at the given position, or nil if the board has no
// card there.
func (gs *GameState) CardAt(pos Position) *Card {
	for i := range gs.Cards {
		if gs.Cards[i].Position == pos {
			return &gs.Cards[i]
		}
	}
	return nil
}

// MatchedCount returns how many cards are locked in matched pairs.
func (gs *GameState) MatchedCount() int {
	count := 0
	for i := range gs.Cards {
		if gs.Cards[i].IsMatched {
			count++
		}
	}
	return count
}

// Remaining returns how many cards are still unmatched.
func (gs *GameState) Remaining() int {
	return len(gs.Cards) - gs.MatchedCount()
}

// RevealedCards returns copies of every face-up card: matched pairs plus the
// two cards of the latest move. Face-down categories stay hidden.
func (gs *GameState) RevealedCards() []Card {
	revealed := make([]Card, 0, len(gs.Cards))
	for i := range gs.Cards {
		if gs.Cards[i].IsMatched || gs.Cards[i].IsRevealed {
			revealed = append(revealed, gs.Cards[i])
		}
	}
	return revealed
}

// CompletionTime returns the elapsed play time in milliseconds, or 0 while
// the game is still running.
func (gs *GameState) CompletionTime() int64 {
	if !gs.IsCompleted || gs.EndTime == nil {
		return 0
	}
	return gs.EndTime.Sub(gs.StartTime).Milliseconds()
}

// ResolveMove validates and applies one reveal of two cards. Validation runs
// eagerly: on any error the state is untouched. On success the two cards are
// turned face-up (all other unmatched cards turn face-down), the move is
// appended to the log, the attempt counter increments, equal categories lock
// the pair, and matching the final pair completes the game and sets EndTime.
//
// Revealing a face-up but unmatched card again is allowed.
func (gs *GameState) ResolveMove(rawPositions []string) (*Move, error) {
	if len(rawPositions) != CardsPerCategory {
		return nil, fmt.Errorf("%w: got %d", ErrWrongCardCount, len(rawPositions))
	}

	first, err := ParsePosition(rawPositions[0])
	if err != nil {
		return nil, err
	}
	second, err := ParsePosition(rawPositions[1])
	if err != nil {
		return nil, err
	}
	if first == second {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePosition, first)
	}

	if gs.IsCompleted {
		return nil, ErrGameCompleted
	}

	cardOne := gs.CardAt(first)
	cardTwo := gs.CardAt(second)
	if cardOne == nil || cardTwo == nil {
		// A dealt board covers every coordinate; a miss means the
		// persisted state is corrupt.
		return nil, fmt.Errorf("board has no card at %s/%s", first, second)
	}
	if cardOne.IsMatched {
		return nil, fmt.Errorf("%w: %s", ErrCardMatched, first)
	}
	if cardTwo.IsMatched {
		return nil, fmt.Errorf("%w: %s", ErrCardMatched, second)
	}

	// Validation passed; mutate. Previous reveals turn face-down first so
	// only the cards of this move (and matched pairs) stay face-up.
	for i := range gs.Cards {
		if !gs.Cards[i].IsMatched {
			gs.Cards[i].IsRevealed = false
		}
	}
	cardOne.IsRevealed = true
	cardTwo.IsRevealed = true

	now := time.Now().UTC()
	move := Move{
		Cards:      [2]Position{first, second},
		Categories: [2]Category{cardOne.Category, cardTwo.Category},
		IsMatch:    cardOne.Category == cardTwo.Category,
		Timestamp:  now,
	}
	gs.Moves = append(gs.Moves, move)
	gs.Attempts++

	if move.IsMatch {
		cardOne.IsMatched = true
		cardTwo.IsMatched = true
		gs.MatchedPairs = append(gs.MatchedPairs, [2]Position{first, second})

		if gs.MatchedCount() == len(gs.Cards) {
			gs.IsCompleted = true
			endTime := now
			gs.EndTime = &endTime
		}
	}

	return &move, nil
}

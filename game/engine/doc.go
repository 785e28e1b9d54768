// Package engine provides the core rules of the memory pairs game.
//
// A game is played on a 4x4 board of 16 face-down cards carrying 8 card
// categories, each appearing exactly twice. A move reveals two cards at a
// time: equal categories lock the pair face-up, unequal categories turn both
// cards face-down again on the next move. The game completes once all 8
// pairs are matched.
//
// Core Types:
//
// GameState is the complete state of one game: the 16 cards, the append-only
// move log, the attempt counter and the completion markers. Card, Move,
// Position and Category model the board. GameState is what the session layer
// persists, so its JSON field names are part of the storage contract.
//
// Usage:
//
//	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
//	state, err := engine.NewGameState(categories, rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	move, err := state.ResolveMove([]string{"A1", "C3"})
//	if err != nil {
//		// bad input: wrong count, malformed position, matched card, ...
//	}
//	if state.IsCompleted {
//		score := engine.Score(state.Attempts, state.CompletionTime())
//	}
//
// Game Rules:
//
// The board is dealt by duplicating the 8 categories and running an unbiased
// Fisher-Yates shuffle over the 16 values, which are then assigned to the
// fixed coordinate order A1..A4, B1..B4, C1..C4, D1..D4. Every resolved move
// appends to the log and increments the attempt counter, matches and
// mismatches alike. Once completed a game never changes again.
package engine

package session

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
)

func storeCategories() []engine.Category {
	return []engine.Category{
		"elephant", "giraffe", "lion", "monkey",
		"panda", "penguin", "tiger", "zebra",
	}
}

func newTestDocument(t *testing.T, key string) *Document {
	t.Helper()

	state, err := engine.NewGameState(storeCategories(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Failed to deal board: %v", err)
	}
	return &Document{
		SessionKey: key,
		Theme:      "animals",
		GameState:  *state,
	}
}

func completeDocument(doc *Document, attempts int, start time.Time, completion time.Duration) {
	end := start.Add(completion)
	doc.Attempts = attempts
	doc.StartTime = start
	doc.EndTime = &end
	doc.IsCompleted = true
	for i := range doc.Cards {
		doc.Cards[i].IsMatched = true
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "lowercase passthrough", raw: "road-trip_42", want: "road-trip_42"},
		{name: "uppercase folded", raw: "PLAYER-One", want: "player-one"},
		{name: "surrounding space trimmed", raw: "  game7  ", want: "game7"},
		{name: "empty", raw: "", wantErr: true},
		{name: "space only", raw: "   ", wantErr: true},
		{name: "illegal characters", raw: "not a key!", wantErr: true},
		{name: "too long", raw: strings.Repeat("a", 65), wantErr: true},
		{name: "max length ok", raw: strings.Repeat("a", 64), want: strings.Repeat("a", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKey(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSessionKey) {
					t.Errorf("Expected ErrInvalidSessionKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to normalize key: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected key %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey()

	// Generated keys must be storable without further cleanup
	normalized, err := NormalizeKey(key)
	if err != nil {
		t.Fatalf("Generated key failed validation: %v", err)
	}
	if normalized != key {
		t.Errorf("Expected generated key to already be normalized, got %q vs %q", key, normalized)
	}

	if NewKey() == key {
		t.Error("Expected distinct generated keys")
	}
}

func TestDocument_Clone(t *testing.T) {
	doc := newTestDocument(t, "clone-me")
	start := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	completeDocument(doc, 12, start, 90*time.Second)
	doc.Moves = append(doc.Moves, engine.Move{
		Cards:      [2]engine.Position{"A1", "B2"},
		Categories: [2]engine.Category{"lion", "lion"},
		IsMatch:    true,
		Timestamp:  start.Add(5 * time.Second),
	})
	doc.MatchedPairs = append(doc.MatchedPairs, [2]engine.Position{"A1", "B2"})

	clone := doc.Clone()

	clone.Cards[0].IsMatched = false
	clone.Moves[0].IsMatch = false
	clone.MatchedPairs[0] = [2]engine.Position{"D4", "D3"}
	*clone.EndTime = clone.EndTime.Add(time.Hour)
	clone.Attempts = 99

	if !doc.Cards[0].IsMatched {
		t.Error("Expected original cards untouched after mutating clone")
	}
	if !doc.Moves[0].IsMatch {
		t.Error("Expected original moves untouched after mutating clone")
	}
	if doc.MatchedPairs[0] != [2]engine.Position{"A1", "B2"} {
		t.Error("Expected original matched pairs untouched after mutating clone")
	}
	if !doc.EndTime.Equal(start.Add(90 * time.Second)) {
		t.Error("Expected original end time untouched after mutating clone")
	}
	if doc.Attempts != 12 {
		t.Errorf("Expected original attempts untouched, got %d", doc.Attempts)
	}
}

func TestSession_TouchAndLastAccessed(t *testing.T) {
	sess := NewSession(newTestDocument(t, "touch-me"))

	first := sess.LastAccessed()
	if first.IsZero() {
		t.Fatal("Expected a fresh session to carry an access time")
	}

	time.Sleep(2 * time.Millisecond)
	sess.Touch()

	if !sess.LastAccessed().After(first) {
		t.Error("Expected Touch to advance the access time")
	}
}

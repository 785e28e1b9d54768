package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionKey    = errors.New("invalid session key")
)

const maxKeyLength = 64

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Document is the persisted record for one game session. The embedded game
// state flattens into the same JSON object, so a stored document reads as a
// single flat session record.
type Document struct {
	SessionKey string `json:"sessionKey"`
	Theme      string `json:"theme"`
	engine.GameState
}

// Clone returns a deep copy of the document. Mutating the copy never touches
// the original's slices.
func (d *Document) Clone() *Document {
	out := *d
	out.Cards = append([]engine.Card(nil), d.Cards...)
	out.Moves = append([]engine.Move(nil), d.Moves...)
	out.MatchedPairs = append([][2]engine.Position(nil), d.MatchedPairs...)
	if d.EndTime != nil {
		end := *d.EndTime
		out.EndTime = &end
	}
	return &out
}

// NormalizeKey lowercases and trims a raw session key and validates it
// against the allowed alphabet.
func NormalizeKey(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", fmt.Errorf("%w: key is empty", ErrInvalidSessionKey)
	}
	if len(key) > maxKeyLength {
		return "", fmt.Errorf("%w: key exceeds %d characters", ErrInvalidSessionKey, maxKeyLength)
	}
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q may only contain a-z, 0-9, '-' and '_'", ErrInvalidSessionKey, raw)
	}
	return key, nil
}

// NewKey generates a random session key.
func NewKey() string {
	return uuid.NewString()
}

// Session wraps a document with in-memory bookkeeping. The mutex serializes
// move submission: callers hold it across the whole read-resolve-save cycle
// so two concurrent submits to the same session cannot interleave.
type Session struct {
	Document

	lastAccess atomic.Int64
	mu         sync.Mutex
}

// NewSession wraps a document for in-memory use.
func NewSession(doc *Document) *Session {
	s := &Session{Document: *doc}
	s.Touch()
	return s
}

// Lock acquires the per-session mutex.
func (s *Session) Lock() {
	s.mu.Lock()
}

// TryLock acquires the per-session mutex without blocking.
func (s *Session) TryLock() bool {
	return s.mu.TryLock()
}

// Unlock releases the per-session mutex.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Touch records an access for idle-eviction bookkeeping.
func (s *Session) Touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

// LastAccessed returns the time of the most recent Touch.
func (s *Session) LastAccessed() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// Snapshot returns a deep copy of the session's document, safe to serialize
// after the session lock is released.
func (s *Session) Snapshot() *Document {
	return s.Document.Clone()
}

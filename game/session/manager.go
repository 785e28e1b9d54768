package session

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
)

// Manager handles session lifecycle as a write-through cache over a Store.
// Every mutation goes to the store; the in-memory map only exists so repeat
// lookups skip the store and so each live session keeps a single mutex
// instance for move serialization.
type Manager struct {
	store    Store
	sessions map[string]*Session
	rng      *rand.Rand
	mu       sync.RWMutex
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*Session),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create deals a fresh board and registers it under the given key. An empty
// key gets a generated one. The store decides key uniqueness, so two racing
// creates for the same key resolve to exactly one winner.
func (m *Manager) Create(ctx context.Context, key, theme string, categories []engine.Category) (*Session, error) {
	if key == "" {
		key = NewKey()
	} else {
		normalized, err := NormalizeKey(key)
		if err != nil {
			return nil, err
		}
		key = normalized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	state, err := engine.NewGameState(categories, m.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to deal board: %w", err)
	}

	doc := &Document{
		SessionKey: key,
		Theme:      theme,
		GameState:  *state,
	}
	if err := m.store.Create(ctx, doc); err != nil {
		return nil, err
	}

	sess := NewSession(doc)
	m.sessions[key] = sess

	return sess, nil
}

// Get retrieves a session by key, falling back to the store when it is not
// cached. Keys are matched case-insensitively.
func (m *Manager) Get(ctx context.Context, key string) (*Session, error) {
	normalized, err := NormalizeKey(key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	sess, cached := m.sessions[normalized]
	m.mu.RUnlock()
	if cached {
		sess.Touch()
		return sess, nil
	}

	doc, err := m.store.Load(ctx, normalized)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another request may have cached it while we were loading; keep the
	// first instance so its mutex stays authoritative.
	if existing, cached := m.sessions[normalized]; cached {
		existing.Touch()
		return existing, nil
	}

	sess = NewSession(doc)
	m.sessions[normalized] = sess

	return sess, nil
}

// Save persists a session's current document. Callers submitting moves hold
// the session lock, so the document is stable for the write.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess == nil {
		return fmt.Errorf("session cannot be nil")
	}
	return m.store.Save(ctx, &sess.Document)
}

// Delete removes a session from the cache and the store.
func (m *Manager) Delete(ctx context.Context, key string) error {
	normalized, err := NormalizeKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, normalized)
	m.mu.Unlock()

	return m.store.Delete(ctx, normalized)
}

// List returns every stored session document.
func (m *Manager) List(ctx context.Context) ([]*Document, error) {
	return m.store.List(ctx)
}

// ListCompleted returns completed session documents passing the filter.
func (m *Manager) ListCompleted(ctx context.Context, filter Filter) ([]*Document, error) {
	return m.store.ListCompleted(ctx, filter)
}

// Count returns the number of cached sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle drops cached sessions that have not been touched within maxAge.
// Documents stay in the store, so evicted sessions remain loadable and keep
// feeding the leaderboard. Sessions locked mid-move are skipped this round.
func (m *Manager) EvictIdle(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, sess := range m.sessions {
		if sess.LastAccessed().After(cutoff) {
			continue
		}
		if !sess.TryLock() {
			continue
		}
		delete(m.sessions, key)
		sess.Unlock()
		removed++
	}

	return removed
}

// SaveAll flushes every cached session to the store. Individual failures are
// logged and counted rather than aborting the sweep.
func (m *Manager) SaveAll(ctx context.Context) error {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.mu.RUnlock()

	errorCount := 0
	for _, sess := range sessions {
		sess.Lock()
		err := m.store.Save(ctx, &sess.Document)
		sess.Unlock()
		if err != nil {
			log.Printf("Warning: failed to save session %s: %v", sess.SessionKey, err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}

// Package session owns the persisted game record and its lifecycle.
//
// Core Types:
//
// Document is the stored shape of one game: the session key, the theme it
// was dealt from, and the embedded game state. Session wraps a document with
// a per-session mutex; move submission holds that mutex across the whole
// read-resolve-save cycle, so concurrent submits to one session serialize
// while different sessions proceed in parallel.
//
// Storage:
//
// Store is the persistence interface. FileStore keeps one pretty-printed
// JSON file per session, which makes documents easy to inspect and audit.
// SQLiteStore keeps each document in a row alongside extracted leaderboard
// columns so completed-game queries filter in SQL. Both report duplicate
// keys on Create and missing keys on Load/Delete through the package
// sentinel errors.
//
// Manager:
//
// Manager is a write-through cache over a Store. Creates and saves always
// hit the store; Get falls back to loading when a session is not cached.
// Idle sessions can be evicted from memory at any time without losing data,
// since the store keeps every document until it is explicitly deleted.
//
// Session Keys:
//
// Keys are case-insensitive and normalized to lowercase. Callers may bring
// their own key (letters, digits, '-' and '_', at most 64 characters) or
// let the manager generate a UUID.
//
// Usage:
//
//	store, err := session.NewFileStore("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManager(store)
//
//	sess, err := manager.Create(ctx, "", "animals", theme.Categories)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(ctx, sess.SessionKey)
//	if err != nil {
//		log.Fatal(err)
//	}
package session

package session

import "context"

// Filter narrows ListCompleted results. Nil fields are ignored.
type Filter struct {
	MinAttempts     *int
	MaxAttempts     *int
	MinCompletionMs *int64
	MaxCompletionMs *int64
}

// Matches reports whether a completed document passes the filter.
func (f Filter) Matches(doc *Document) bool {
	if f.MinAttempts != nil && doc.Attempts < *f.MinAttempts {
		return false
	}
	if f.MaxAttempts != nil && doc.Attempts > *f.MaxAttempts {
		return false
	}
	completion := doc.CompletionTime()
	if f.MinCompletionMs != nil && completion < *f.MinCompletionMs {
		return false
	}
	if f.MaxCompletionMs != nil && completion > *f.MaxCompletionMs {
		return false
	}
	return true
}

// Store persists session documents.
type Store interface {
	// Create writes a new document. Returns ErrSessionAlreadyExists when the
	// key is already taken.
	Create(ctx context.Context, doc *Document) error

	// Save writes a document, overwriting any existing one with the same key.
	Save(ctx context.Context, doc *Document) error

	// Load retrieves a document by key. Returns ErrSessionNotFound when absent.
	Load(ctx context.Context, key string) (*Document, error)

	// Delete removes a document. Returns ErrSessionNotFound when absent.
	Delete(ctx context.Context, key string) error

	// List returns every stored document.
	List(ctx context.Context) ([]*Document, error)

	// ListCompleted returns every completed document passing the filter.
	ListCompleted(ctx context.Context, filter Filter) ([]*Document, error)

	// Exists reports whether a document with the key is stored.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases resources held by the store.
	Close() error
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store using one pretty-printed JSON file per session,
// named <sessionKey>.json, so documents stay readable and auditable on disk.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based session store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Create persists a new document, failing if the key is already taken. The
// exclusive-create open makes the uniqueness check atomic at the filesystem.
func (s *FileStore) Create(ctx context.Context, doc *Document) error {
	data, err := s.encode(ctx, doc)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(s.filePath(doc.SessionKey), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrSessionAlreadyExists
		}
		return fmt.Errorf("failed to create session file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return file.Close()
}

// Save persists a document to a JSON file.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	data, err := s.encode(ctx, doc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.filePath(doc.SessionKey), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

func (s *FileStore) encode(ctx context.Context, doc *Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}
	if doc.SessionKey == "" {
		return nil, fmt.Errorf("document has no session key")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session document: %w", err)
	}

	return data, nil
}

// Load retrieves a document from its JSON file.
func (s *FileStore) Load(ctx context.Context, key string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session document: %w", err)
	}

	return &doc, nil
}

// Delete removes a session file.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.filePath(key)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// List returns every stored document. Unreadable files are skipped so one
// corrupt document does not hide the rest.
func (s *FileStore) List(ctx context.Context) ([]*Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	docs := make([]*Document, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		key := strings.TrimSuffix(entry.Name(), ".json")
		doc, err := s.Load(ctx, key)
		if err != nil {
			log.Printf("Warning: skipping session file %s: %v", entry.Name(), err)
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// ListCompleted returns every completed document passing the filter.
func (s *FileStore) ListCompleted(ctx context.Context, filter Filter) ([]*Document, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	completed := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if !doc.IsCompleted {
			continue
		}
		if !filter.Matches(doc) {
			continue
		}
		completed = append(completed, doc)
	}

	return completed, nil
}

// Exists checks if a session file exists.
func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.filePath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat session file: %w", err)
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", key))
}

var _ Store = (*FileStore)(nil)

// Package docstore treats remote JSON files as whole-document collections.
// Every save overwrites the target document in full; there is no append,
// patch or diff operation against the remote store. Read-modify-write remains
// the caller's pattern — the store adds optimistic versioning on top so a
// stale base surfaces a conflict instead of silently clobbering a concurrent
// writer.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Backend is the slice of the resource client the store needs. ReadDocument
// returns (nil, "", nil) for a missing document; WriteDocument returns
// common.ErrConflict when the supplied etag is stale.
type Backend interface {
	ReadDocument(ctx context.Context, path string) (data []byte, etag string, err error)
	WriteDocument(ctx context.Context, path string, data []byte, etag string) (newETag string, err error)
}

// Store tracks the last etag seen per document so saves can be conditional.
type Store struct {
	backend Backend

	mu    sync.Mutex
	etags map[string]string
}

// New returns a store over the given backend.
func New(backend Backend) *Store {
	return &Store{backend: backend, etags: make(map[string]string)}
}

func (s *Store) remember(path, etag string) {
	s.mu.Lock()
	s.etags[path] = etag
	s.mu.Unlock()
}

func (s *Store) lastETag(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.etags[path]
}

// Forget drops the remembered version for a path. Callers use it after a
// conflict so the next save is unconditional against the re-read state.
func (s *Store) Forget(path string) {
	s.mu.Lock()
	delete(s.etags, path)
	s.mu.Unlock()
}

// LoadCollection decodes the whole document at path into a slice. A missing or
// empty document yields an empty slice, never an error: absence is "no data
// yet", not a fault.
func LoadCollection[T any](ctx context.Context, s *Store, path string) ([]T, error) {
	data, etag, err := s.backend.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	s.remember(path, etag)
	if len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveCollection serializes the entire collection and overwrites the document.
// The last etag seen for the path is sent as the write's base version; a
// conflict surfaces as common.ErrConflict for the caller to reload and retry.
func SaveCollection[T any](ctx context.Context, s *Store, path string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	newETag, err := s.backend.WriteDocument(ctx, path, data, s.lastETag(path))
	if err != nil {
		return err
	}
	s.remember(path, newETag)
	return nil
}

// LoadDocument decodes a singleton document. found is false when the document
// does not exist yet.
func LoadDocument[T any](ctx context.Context, s *Store, path string) (v T, found bool, err error) {
	data, etag, err := s.backend.ReadDocument(ctx, path)
	if err != nil {
		return v, false, err
	}
	s.remember(path, etag)
	if len(data) == 0 {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decoding %q: %w", path, err)
	}
	return v, true, nil
}

// SaveDocument overwrites a singleton document.
func SaveDocument[T any](ctx context.Context, s *Store, path string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	newETag, err := s.backend.WriteDocument(ctx, path, data, s.lastETag(path))
	if err != nil {
		return err
	}
	s.remember(path, newETag)
	return nil
}

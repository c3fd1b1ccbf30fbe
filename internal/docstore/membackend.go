package docstore

import (
	"context"
	"fmt"
	"sync"

	"unitdrive/internal/common"
)

// MemBackend keeps documents in memory. It backs simulation mode (entered when
// the token endpoint is unreachable) and tests. Writes honor the same
// conditional semantics as the remote backend.
type MemBackend struct {
	mu    sync.Mutex
	docs  map[string][]byte
	etags map[string]string
	seq   int
}

// NewMemBackend returns an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{
		docs:  make(map[string][]byte),
		etags: make(map[string]string),
	}
}

func (m *MemBackend) ReadDocument(_ context.Context, path string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[path]
	if !ok {
		return nil, "", nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, m.etags[path], nil
}

func (m *MemBackend) WriteDocument(_ context.Context, path string, data []byte, etag string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if etag != "" {
		if current, ok := m.etags[path]; ok && current != etag {
			return "", fmt.Errorf("writing %q: %w", path, common.ErrConflict)
		}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.docs[path] = stored
	m.seq++
	m.etags[path] = fmt.Sprintf("sim-%d", m.seq)
	return m.etags[path], nil
}

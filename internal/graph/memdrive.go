package graph

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"unitdrive/internal/model"
)

// MemDrive is an in-memory stand-in for the drive used in simulation mode,
// entered when the token endpoint is unreachable. No network calls are made
// at all; uploads and listings operate on process memory only.
type MemDrive struct {
	mu    sync.Mutex
	files map[string]memFile // path -> file
	seq   int
}

type memFile struct {
	id          string
	data        []byte
	contentType string
	modified    time.Time
}

// NewMemDrive returns an empty simulated drive.
func NewMemDrive() *MemDrive {
	return &MemDrive{files: make(map[string]memFile)}
}

func (m *MemDrive) ListFolder(_ context.Context, folder string) ([]model.CloudItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder = strings.Trim(folder, "/")
	seenFolders := map[string]int{}
	var items []model.CloudItem

	for p, f := range m.files {
		dir := path.Dir(p)
		if dir == "." {
			dir = ""
		}
		if dir == folder {
			items = append(items, model.CloudItem{
				ID:           f.id,
				Name:         path.Base(p),
				Size:         int64(len(f.data)),
				MimeType:     f.contentType,
				LastModified: f.modified,
			})
			continue
		}
		// direct child folder of the requested path
		if folder == "" || strings.HasPrefix(dir, folder+"/") {
			rest := dir
			if folder != "" {
				rest = strings.TrimPrefix(dir, folder+"/")
			}
			child := strings.SplitN(rest, "/", 2)[0]
			if child != "" {
				seenFolders[child]++
			}
		}
	}

	for name, count := range seenFolders {
		items = append(items, model.CloudItem{
			ID:         "folder-" + name,
			Name:       name,
			IsFolder:   true,
			ChildCount: count,
		})
	}

	SortItems(items)
	return items, nil
}

func (m *MemDrive) UploadFile(_ context.Context, p string, data []byte, contentType string) (model.CloudItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = strings.Trim(p, "/")
	m.seq++
	f := memFile{
		id:          fmt.Sprintf("sim-item-%d", m.seq),
		data:        append([]byte(nil), data...),
		contentType: contentType,
		modified:    time.Now().UTC(),
	}
	m.files[p] = f
	return model.CloudItem{
		ID:           f.id,
		Name:         path.Base(p),
		Size:         int64(len(f.data)),
		MimeType:     contentType,
		LastModified: f.modified,
	}, nil
}

func (m *MemDrive) CreateShareLink(_ context.Context, itemID string) (string, error) {
	return "https://simulated.local/share/" + itemID, nil
}

func (m *MemDrive) DeleteItem(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p, f := range m.files {
		if f.id == itemID {
			delete(m.files, p)
			return nil
		}
	}
	return fmt.Errorf("item %q not found", itemID)
}

func (m *MemDrive) FetchRecentByUser(ctx context.Context, username string, month time.Time) ([]model.CloudItem, error) {
	return m.ListFolder(ctx, fmt.Sprintf("%s/T%02d", username, int(month.Month())))
}

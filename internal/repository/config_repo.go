package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"unitdrive/internal/docstore"
	"unitdrive/internal/model"
)

// ConfigDocPath is the fixed location of the system config document.
const ConfigDocPath = "System/config.json"

// ConfigRepository defines data access for the singleton system config. The
// remote document is authoritative; one local cached copy lets the UI paint
// immediately and survives a failing remote read.
type ConfigRepository interface {
	Get(ctx context.Context) (model.SystemConfig, error)
	Save(ctx context.Context, cfg model.SystemConfig) error
	Cached() (model.SystemConfig, bool)
}

type configRepository struct {
	store     *docstore.Store
	cachePath string
}

// NewConfigRepository returns a ConfigRepository caching to the given file.
func NewConfigRepository(store *docstore.Store, cachePath string) ConfigRepository {
	return &configRepository{store: store, cachePath: cachePath}
}

// Get fetches the remote config. On a failed read it serves the cached copy;
// with neither available the defaults apply. A successful read refreshes the
// cache.
func (r *configRepository) Get(ctx context.Context) (model.SystemConfig, error) {
	cfg, found, err := docstore.LoadDocument[model.SystemConfig](ctx, r.store, ConfigDocPath)
	if err != nil {
		if cached, ok := r.Cached(); ok {
			return cached, nil
		}
		return model.DefaultSystemConfig(), err
	}
	if !found {
		return model.DefaultSystemConfig(), nil
	}
	r.writeCache(cfg)
	return cfg, nil
}

// Save writes the remote document and refreshes the local cache on success.
func (r *configRepository) Save(ctx context.Context, cfg model.SystemConfig) error {
	if err := docstore.SaveDocument(ctx, r.store, ConfigDocPath, cfg); err != nil {
		return err
	}
	r.writeCache(cfg)
	return nil
}

// Cached returns the locally cached blob, if any.
func (r *configRepository) Cached() (model.SystemConfig, bool) {
	data, err := os.ReadFile(r.cachePath)
	if err != nil {
		return model.SystemConfig{}, false
	}
	var cfg model.SystemConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return model.SystemConfig{}, false
	}
	return cfg, true
}

func (r *configRepository) writeCache(cfg model.SystemConfig) {
	if err := os.MkdirAll(filepath.Dir(r.cachePath), 0o755); err != nil {
		return
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	// cache is best-effort; a failed write only costs the instant first paint
	_ = os.WriteFile(r.cachePath, data, 0o644)
}

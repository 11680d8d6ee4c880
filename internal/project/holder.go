package project

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Holder publishes the current catalog and swaps it when the backing file
// changes. Readers always see a complete catalog.
type Holder struct {
	path    string
	current atomic.Pointer[Catalog]
}

// NewHolder loads path (or the embedded default when empty) and validates it.
func NewHolder(path string) (*Holder, error) {
	h := &Holder{path: path}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// NewStaticHolder wraps an already-built catalog.
func NewStaticHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Catalog returns the current catalog.
func (h *Holder) Catalog() *Catalog {
	return h.current.Load()
}

// Resolver returns a resolver over the current catalog.
func (h *Holder) Resolver() *Resolver {
	return NewResolver(h.Catalog())
}

// Reload re-reads the catalog file. An invalid file leaves the current
// catalog in place.
func (h *Holder) Reload() error {
	c, err := LoadCatalog(h.path)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return eris.Wrap(err, "project: validate catalog")
	}
	h.current.Store(c)
	zap.L().Info("project: catalog loaded",
		zap.String("path", h.path),
		zap.String("version", c.Version),
		zap.Int("regions", len(c.Regions)),
		zap.Int("rules", len(c.Rules)),
	)
	return nil
}

// Watch reloads the catalog whenever its file is written or replaced, until
// ctx is done. The directory is watched so editors that swap files by rename
// are picked up.
func (h *Holder) Watch(ctx context.Context) error {
	if h.path == "" {
		return eris.New("project: watch requires a catalog path")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "project: create watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(h.path)); err != nil {
		return eris.Wrapf(err, "project: watch %s", h.path)
	}
	target := filepath.Clean(h.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := h.Reload(); err != nil {
				zap.L().Warn("project: catalog reload failed, keeping previous", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			zap.L().Warn("project: watcher error", zap.Error(err))
		}
	}
}

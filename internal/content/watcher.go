package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a Catalog when files under its sponsors or hotels
// directories change. Bursts of events are coalesced into one reload.
type Watcher struct {
	catalog  *Catalog
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher watches the catalog's sponsors directory, each category
// directory under it, and the hotels directory. Missing directories are
// ignored.
func NewWatcher(catalog *Catalog, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{catalog: catalog, debounce: debounce, fsw: fsw}

	if err := w.addTree(catalog.SponsorsDir()); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := w.add(catalog.HotelsDir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) add(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	if err := w.add(root); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.add(filepath.Join(root, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.New(ctx)
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			// new category directories need their own watch
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == w.catalog.SponsorsDir() {
				if err := w.add(ev.Name); err != nil {
					logger.LogWarnf("content_watch", "%v", err)
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.LogError("content_watch", err)

		case <-timer.C:
			if err := w.catalog.Reload(); err != nil {
				logger.LogError("content_reload", err)
				continue
			}
			logger.LogInfof("content_reload", "sponsors and hotels reloaded")
		}
	}
}

// internal/memory/watcher.go
package memory

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher - بارگذاری دوباره‌ی فایل پرونده‌ها هنگام تغییر
type Watcher struct {
	path    string
	dossier *Dossier
	watcher *fsnotify.Watcher
	reloads chan struct{}
}

// NewWatcher watches the directory of path, since editors usually replace
// the file instead of writing it in place.
func NewWatcher(path string, dossier *Dossier) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dossier path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		dossier: dossier,
		watcher: w,
		reloads: make(chan struct{}, 1),
	}, nil
}

// Reloads signals after every successful reload. Signals are dropped when
// nobody is receiving.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reloads
}

// Run blocks until ctx is done or the underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Dossier watcher error")
		}
	}
}

func (w *Watcher) reload() {
	records, err := LoadDossierFile(w.path)
	if err != nil {
		// فایل نیمه‌نوشته یا نامعتبر؛ snapshot قبلی می‌ماند
		log.Warn().Err(err).Str("path", w.path).Msg("Dossier reload skipped")
		return
	}
	if len(records) == 0 {
		// معمولاً truncate پیش از نوشتن دوباره
		log.Debug().Str("path", w.path).Msg("Empty dossier ignored")
		return
	}
	if err := w.dossier.Replace(records); err != nil {
		log.Warn().Err(err).Msg("Dossier reload rejected")
		return
	}

	log.Info().Int("records", len(records)).Str("path", w.path).Msg("Dossier reloaded")
	select {
	case w.reloads <- struct{}{}:
	default:
	}
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 50 * time.Millisecond

// Update is delivered by Watch after the config file changed.
type Update struct {
	Config  *Config
	Changes []AttributeChange
	// ContentChanged is set when the content path or the file it points at
	// changed.
	ContentChanged bool
}

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Logger   *slog.Logger

	current *Config
}

// NewWatcher returns a watcher for path starting from initial, the config
// the caller already applied.
func NewWatcher(path string, initial *Config) *Watcher {
	if initial == nil {
		initial = &Config{Attributes: map[string]string{}}
	}
	return &Watcher{
		Path:     path,
		Debounce: DefaultDebounce,
		Logger:   slog.Default(),
		current:  initial,
	}
}

// Run watches until ctx is done, calling fn for every effective change. It
// watches the parent directory so atomic renames by editors are seen. A
// file that fails to parse is logged and skipped; the previous config
// stays in effect.
func (w *Watcher) Run(ctx context.Context, fn func(Update)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer fsw.Close()

	target := filepath.Clean(w.Path)
	watched := map[string]bool{filepath.Dir(target): true}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	contentPath := w.current.ContentPath(target)
	w.watchContent(fsw, watched, contentPath)

	var timer *time.Timer
	var fire <-chan time.Time
	contentTouched := false
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if name != target && name != contentPath {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if name == contentPath && contentPath != "" {
				contentTouched = true
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			next, err := LoadFile(target)
			if err != nil {
				w.Logger.Warn("config: reload failed", "path", target, "err", err)
				contentTouched = false
				continue
			}
			u := Update{
				Config:         next,
				Changes:        Diff(w.current.Attributes, next.Attributes),
				ContentChanged: contentTouched || next.Content != w.current.Content,
			}
			titleChanged := next.Title != w.current.Title
			contentTouched = false
			w.current = next
			if p := next.ContentPath(target); p != contentPath {
				contentPath = p
				w.watchContent(fsw, watched, contentPath)
			}
			if len(u.Changes) == 0 && !u.ContentChanged && !titleChanged {
				continue
			}
			w.Logger.Debug("config: reloaded", "changes", len(u.Changes), "content_changed", u.ContentChanged)
			fn(u)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("config: watcher error", "err", err)
		}
	}
}

func (w *Watcher) watchContent(fsw *fsnotify.Watcher, watched map[string]bool, path string) {
	if path == "" {
		return
	}
	dir := filepath.Dir(path)
	if watched[dir] {
		return
	}
	if err := fsw.Add(dir); err != nil {
		w.Logger.Warn("config: cannot watch content", "path", path, "err", err)
		return
	}
	watched[dir] = true
}

// Watch is shorthand for NewWatcher(path, initial).Run(ctx, fn).
func Watch(ctx context.Context, path string, initial *Config, fn func(Update)) error {
	return NewWatcher(path, initial).Run(ctx, fn)
}

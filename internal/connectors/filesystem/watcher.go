// Package filesystem watches a local folder and loads PDFs dropped into it.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is loaded.
// Copies arrive as a Create followed by several Writes.
const DefaultDebounce = 750 * time.Millisecond

// Action is what a filesystem event asks the watcher to do.
type Action int

// Watcher actions.
const (
	ActionNone Action = iota
	ActionLoad
	ActionUnload
)

// Watcher loads PDFs that appear in a folder and unloads ones that vanish.
type Watcher struct {
	documents driving.DocumentService
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingLoad
	loaded  map[string]bool
	wg      sync.WaitGroup
}

type pendingLoad struct {
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher that uploads into documents.
func New(documents driving.DocumentService, opts ...Option) *Watcher {
	w := &Watcher{
		documents: documents,
		debounce:  DefaultDebounce,
		pending:   make(map[string]*pendingLoad),
		loaded:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loads the PDFs already in dir, then watches it until ctx is done.
// Subdirectories are not watched.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch folder: %s is not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s for new PDFs", dir)

	w.scan(ctx, dir)

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.dispatch(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) scan(ctx context.Context, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("scanning %s: %v", dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isPDFName(e.Name()) {
			continue
		}
		w.load(ctx, filepath.Join(dir, e.Name()))
	}
}

// HandleEvent classifies a filesystem event.
func HandleEvent(event fsnotify.Event) Action {
	if !isPDFName(filepath.Base(event.Name)) {
		return ActionNone
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return ActionNone
		}
		return ActionLoad
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return ActionUnload
	default:
		return ActionNone
	}
}

func (w *Watcher) dispatch(ctx context.Context, event fsnotify.Event) {
	switch HandleEvent(event) {
	case ActionLoad:
		w.schedule(ctx, event.Name)
	case ActionUnload:
		w.unload(ctx, event.Name)
	case ActionNone:
	}
}

// schedule loads path once no event has touched it for the debounce period.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(w.debounce)
		return
	}

	// A timer that already fired is replaced; its callback only clears its own entry.
	p := &pendingLoad{}
	w.wg.Add(1)
	p.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == p {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		if ctx.Err() == nil {
			w.load(ctx, path)
		}
	})
	w.pending[path] = p
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, p := range w.pending {
		if p.timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Watcher) load(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}

	name := filepath.Base(path)
	_, err = w.documents.Upload(ctx, driving.UploadRequest{
		Filename: name,
		Data:     data,
		Source:   domain.SourceWatch,
	}, nil)

	var dup *domain.DuplicateDocumentError
	switch {
	case errors.As(err, &dup):
		logger.Debug("watch: %s already loaded", name)
		return
	case err != nil:
		logger.Warn("watch: loading %s: %v", name, err)
		return
	}
	logger.Info("Loaded %s from watch folder", name)

	w.mu.Lock()
	w.loaded[name] = true
	w.mu.Unlock()
}

// unload removes a document this watcher loaded.
func (w *Watcher) unload(ctx context.Context, path string) {
	name := filepath.Base(path)

	w.mu.Lock()
	if p, ok := w.pending[path]; ok && p.timer.Stop() {
		delete(w.pending, path)
		w.wg.Done()
	}
	owned := w.loaded[name]
	delete(w.loaded, name)
	w.mu.Unlock()

	if !owned {
		return
	}
	if err := w.documents.Delete(ctx, name); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("watch: unloading %s: %v", name, err)
		return
	}
	logger.Info("Unloaded %s (removed from watch folder)", name)
}

func isPDFName(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".pdf")
}

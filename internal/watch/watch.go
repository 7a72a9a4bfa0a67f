// Package watch reloads a schema file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// OnReload receives every successfully decoded schema.
	OnReload func(*schema.Schema)
	// OnError receives read, decode and watcher errors. A failed reload keeps
	// the previous schema in place.
	OnError  func(error)
	Debounce time.Duration
}

// Watcher observes a single schema file. The parent directory is watched so
// atomic saves (write to temp file, rename over target) are picked up.
type Watcher struct {
	path      string
	config    Config
	fsWatcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New prepares a watcher for path. Call Start to begin observing.
func New(path string, config Config) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch: path is required")
	}
	if config.OnReload == nil {
		return nil, errors.New("watch: OnReload is required")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{path: abs, config: config, fsWatcher: fsWatcher}, nil
}

// Start begins observing until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.running = true
	go w.loop(ctx)
	return nil
}

// Stop ends observation and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.fsWatcher.Close()
	}
	w.running = false
	w.cancel()
	done := w.done
	w.mu.Unlock()

	<-done
	return w.fsWatcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) reload() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.report(err)
		return
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(w.path), raw)
	if err != nil {
		w.report(err)
		return
	}
	s, err := doc.Decode()
	if err != nil {
		w.report(err)
		return
	}
	w.config.OnReload(s)
}

func (w *Watcher) report(err error) {
	if w.config.OnError != nil && err != nil {
		w.config.OnError(err)
	}
}

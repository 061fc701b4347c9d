package store

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"todozi/internal/logging"
)

// ExternalEdit describes a file under the storage root that changed without
// going through the Store's own write path — e.g. a user hand-editing a
// project container on disk.
type ExternalEdit struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Watcher watches the storage root for out-of-band writes and reports them
// on a channel, debounced per path so a single external save doesn't fan out
// into several notifications.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	debounce    map[string]time.Time
	debounceDur time.Duration
	events      chan ExternalEdit
	stop        chan struct{}
}

// WatchRoot starts watching every directory under the store's root,
// recursively, for create/write/remove/rename events.
func (s *Store) WatchRoot(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs, err := collectDirs(s.root)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			logging.Get().Warn("watch: failed to add directory", zap.Error(err), zap.String("dir", d))
		}
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	w := &Watcher{
		fsw:         fsw,
		debounce:    make(map[string]time.Time),
		debounceDur: debounce,
		events:      make(chan ExternalEdit, 64),
		stop:        make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events returns the channel of debounced external-edit notifications.
func (w *Watcher) Events() <-chan ExternalEdit { return w.events }

// Close stops the watcher and releases its OS resources.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Get().Warn("watch: fsnotify error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	now := time.Now()
	w.mu.Lock()
	last, seen := w.debounce[ev.Name]
	w.debounce[ev.Name] = now
	w.mu.Unlock()
	if seen && now.Sub(last) < w.debounceDur {
		return
	}

	select {
	case w.events <- ExternalEdit{Path: ev.Name, Op: ev.Op, At: now}:
	default:
		logging.Get().Warn("watch: events channel full, dropping notification", zap.String("path", ev.Name))
	}
}

func collectDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

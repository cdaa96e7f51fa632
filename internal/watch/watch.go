// Package watch monitors structure and diff files for changes.
//
// The watcher registers the parent directory of each watched file with
// fsnotify, since editors typically replace files via rename rather
// than writing in place, and filters events down to the watched paths.
// Rapid write bursts are debounced into a single event.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrAlreadyWatching = errors.New("already watching path")
	ErrNotWatching     = errors.New("not watching path")
)

// DefaultDebounce is the event coalescing window.
const DefaultDebounce = 100 * time.Millisecond

// Event reports that a watched file changed.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Time is when the last change in the debounce window was seen.
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window for change events.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// Watcher watches individual files and emits debounced change events.
type Watcher struct {
	mu sync.Mutex

	fsw   *fsnotify.Watcher
	delay time.Duration

	// files maps watched file paths to their parent directory.
	files map[string]string
	// dirs refcounts fsnotify registrations per directory.
	dirs map[string]int
	// pending holds the debounce timer per file.
	pending map[string]*time.Timer

	events chan Event
	errors chan error
	// fired funnels expired debounce timers into processLoop so the
	// loop stays the only sender on events.
	fired   chan string
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher. Callers must Close it when done.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		delay:   DefaultDebounce,
		files:   make(map[string]string),
		dirs:    make(map[string]int),
		pending: make(map[string]*time.Timer),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		fired:   make(chan string, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a file.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if _, ok := w.files[abs]; ok {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = dir
	return nil
}

// Unwatch stops watching a file.
func (w *Watcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir, ok := w.files[abs]
	if !ok {
		return ErrNotWatching
	}

	delete(w.files, abs)
	if t, ok := w.pending[abs]; ok {
		t.Stop()
		delete(w.pending, abs)
	}
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			return err
		}
	}
	return nil
}

// Events returns the debounced change event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.bump(filepath.Clean(ev.Name))
			}
		case path := <-w.fired:
			select {
			case w.events <- Event{Path: path, Time: time.Now()}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Drop when the consumer is not keeping up.
			}
		}
	}
}

// bump resets the debounce timer for a changed file.
func (w *Watcher) bump(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[path] = time.AfterFunc(w.delay, func() {
		w.fire(path)
	})
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.fired <- path:
	case <-w.closeCh:
	}
}

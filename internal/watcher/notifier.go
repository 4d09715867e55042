package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/monolcd/internal/logging"
)

// ErrNotifierClosed is returned when operating on a closed Notifier.
var ErrNotifierClosed = errors.New("notifier is closed")

// DefaultDebounce is how long the file must stay quiet before a wake-up.
const DefaultDebounce = 20 * time.Millisecond

// Notifier signals when the watched file may have changed.
//
// The file's directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it, and
// files that do not exist yet, are both covered. Events are debounced, so
// a burst of writes produces one wake-up once the file settles, and at
// most one wake-up is ever pending.
type Notifier struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	path    string
	log     *logging.Logger

	wake     chan struct{}
	debounce time.Duration
	timer    *time.Timer

	events atomic.Int64
	errors atomic.Int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithLogger sets the logger used for watch errors.
func WithLogger(l *logging.Logger) NotifierOption {
	return func(n *Notifier) {
		n.log = logging.OrNop(l).WithComponent("watcher")
	}
}

// WithDebounce sets the quiet period before a wake-up. Zero wakes on
// every event.
func WithDebounce(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d >= 0 {
			n.debounce = d
		}
	}
}

// NewNotifier starts watching the directory that contains path.
func NewNotifier(path string, opts ...NotifierOption) (*Notifier, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	n := &Notifier{
		watcher:  fsw,
		path:     absPath,
		log:      logging.Nop(),
		wake:     make(chan struct{}, 1),
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}

	n.closedWg.Add(1)
	go n.processLoop()

	return n, nil
}

// Path returns the absolute path being watched.
func (n *Notifier) Path() string { return n.path }

// Wake returns the channel that receives a value after the file changes.
// The channel is never closed.
func (n *Notifier) Wake() <-chan struct{} { return n.wake }

// Events returns the number of relevant events seen.
func (n *Notifier) Events() int64 { return n.events.Load() }

// Errors returns the number of watch errors seen.
func (n *Notifier) Errors() int64 { return n.errors.Load() }

// Close stops watching. It is safe to call more than once.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.closeCh)
	if n.timer != nil {
		n.timer.Stop()
	}
	n.mu.Unlock()

	err := n.watcher.Close()
	n.closedWg.Wait()
	return err
}

func (n *Notifier) processLoop() {
	defer n.closedWg.Done()

	for {
		select {
		case <-n.closeCh:
			return

		case ev, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if n.relevant(ev) {
				n.events.Add(1)
				n.schedule()
			}

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			n.errors.Add(1)
			n.log.Warn("watch error: %v", err)
		}
	}
}

// relevant reports whether ev concerns the watched file.
func (n *Notifier) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == n.path
}

// schedule signals after the debounce period, restarting the period if
// one is already running.
func (n *Notifier) schedule() {
	if n.debounce == 0 {
		n.signal()
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	if n.timer == nil {
		n.timer = time.AfterFunc(n.debounce, n.signal)
		return
	}
	n.timer.Reset(n.debounce)
}

// signal queues a wake-up unless one is already pending.
func (n *Notifier) signal() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

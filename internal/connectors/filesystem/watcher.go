// Package filesystem watches a local directory for new or changed PDF files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfqa/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is reported.
const DefaultSettle = 500 * time.Millisecond

// ErrClosed is returned when watching with a closed watcher.
var ErrClosed = errors.New("watcher is closed")

// Watcher reports PDF files created or written in a directory.
// Events for the same file are coalesced until it has settled, so a file
// copied in several writes is reported once.
type Watcher struct {
	root   string
	settle time.Duration

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets the quiet period before a changed file is reported.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a watcher for root. Nothing is opened until Watch.
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:   root,
		settle: DefaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// IsPDF reports whether path has a .pdf extension, ignoring case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Scan lists the PDF files currently in root, sorted by name.
// Subdirectories are not descended into.
func (w *Watcher) Scan() ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsPDF(e.Name()) {
			paths = append(paths, filepath.Join(w.root, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Watch starts watching root and returns a channel of settled PDF paths.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if w.watcher != nil {
		return nil, errors.New("watcher already started")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.watcher = fsw

	out := make(chan string)
	go w.loop(ctx, fsw, out)
	return out, nil
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- string) {
	defer close(out)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			pending[event.Name] = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				if _, err := os.Stat(path); err != nil {
					continue
				}
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// relevant keeps creates and writes of PDF files.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return IsPDF(event.Name)
}

// settled returns the pending paths quiet for at least settle, sorted.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}

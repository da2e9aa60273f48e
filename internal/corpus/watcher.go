package corpus

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/corentings/repertoire"
)

// Watcher rebuilds the tree when a corpus file changes. A change that
// breaks the corpus is logged and the previous tree stays in use.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	files    map[string]bool // explicitly listed files
	dirs     map[string]bool // directories whose *.pgn files are followed
	sources  map[string]Source
	pending  map[string]time.Time
	debounce time.Duration
	onReload func(*repertoire.MoveTree)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher returns a watcher over paths, seeded with their current
// content. onReload is called from the watcher goroutine with every new tree.
func NewWatcher(ctx context.Context, paths []string, log *zap.Logger, onReload func(*repertoire.MoveTree)) (*Watcher, error) {
	files, err := Files(paths)
	if err != nil {
		return nil, err
	}
	sources, err := Read(ctx, files)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &Watcher{
		watcher:  fw,
		log:      log,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		sources:  make(map[string]Source, len(sources)),
		pending:  make(map[string]time.Time),
		debounce: 300 * time.Millisecond,
		onReload: onReload,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, src := range sources {
		w.sources[src.Name] = src
	}
	for _, p := range paths {
		p = filepath.Clean(p)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			w.dirs[p] = true
		} else {
			w.files[p] = true
		}
	}
	return w, nil
}

// SetDebounce changes how long a file must stay quiet before it is reread.
// It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	watched := maps.Clone(w.dirs)
	// editors replace files on save, so the parent directory is watched
	for f := range w.files {
		watched[filepath.Dir(f)] = true
	}
	for d := range watched {
		if err := w.watcher.Add(d); err != nil {
			w.log.Warn("cannot watch corpus directory", zap.String("dir", d), zap.Error(err))
			continue
		}
		w.log.Debug("watching corpus directory", zap.String("dir", d))
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing corpus watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 3
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("corpus watcher", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// follows reports whether name belongs to the corpus.
func (w *Watcher) follows(name string) bool {
	name = filepath.Clean(name)
	if w.files[name] {
		return true
	}
	return strings.HasSuffix(name, Ext) && w.dirs[filepath.Dir(name)]
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.follows(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("corpus file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
	w.pending[filepath.Clean(event.Name)] = time.Now()
}

// flush rereads the files that settled and rebuilds the tree.
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var settled []string
	for name, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, name)
			delete(w.pending, name)
		}
	}
	if len(settled) == 0 {
		return
	}

	next := make(map[string]Source, len(w.sources))
	maps.Copy(next, w.sources)
	for _, name := range settled {
		raw, err := os.ReadFile(name)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			delete(next, name)
		case err != nil:
			w.log.Warn("cannot read corpus file", zap.String("file", name), zap.Error(err))
			return
		default:
			next[name] = Source{Name: name, Text: string(raw)}
		}
	}

	names := maps.Keys(next)
	slices.Sort(names)
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, next[name])
	}

	mt, err := Build(sources)
	if err != nil {
		w.log.Warn("corpus change rejected", zap.Strings("files", settled), zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		return
	}
	w.sources = next
	w.log.Info("corpus reloaded", zap.Int("files", len(sources)), zap.Int("lines", len(mt.Lines())))
	if w.onReload != nil {
		w.onReload(mt)
	}
}

package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeKind tells scene specs and scripts apart so callers reload only
// what changed.
type ChangeKind int

const (
	ChangeSpec ChangeKind = iota + 1
	ChangeScript
)

// Change is one debounced file event.
type Change struct {
	Path string
	Kind ChangeKind
}

// Name is the file name without directories, as passed to Load.
func (c Change) Name() string {
	return filepath.Base(c.Path)
}

const watchDebounce = 100 * time.Millisecond

// Watcher reports edits to prefab YAML and tengo scripts.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewWatcher(log *zap.Logger, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	if log == nil {
		log = zap.NewNop()
	}

	watcher := &Watcher{
		watcher: w,
		log:     log,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	watcher.wg.Add(1)
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll drains pending changes without blocking, for use from the game loop.
func (w *Watcher) Poll() []Change {
	var out []Change
	for {
		select {
		case c, ok := <-w.Events:
			if !ok {
				return out
			}
			out = append(out, c)
		case err, ok := <-w.Errors:
			if ok {
				w.log.Warn("prefab watcher error", zap.Error(err))
			}
		default:
			return out
		}
	}
}

// run coalesces bursts: a change is emitted once its file has been quiet for
// watchDebounce, so editors that truncate then write produce one reload of
// the finished file.
func (w *Watcher) run() {
	defer w.wg.Done()
	pending := make(map[string]ChangeKind)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind := classify(event.Name)
			if kind == 0 {
				continue
			}
			w.log.Debug("prefab changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			pending[event.Name] = kind
			timer.Reset(watchDebounce)
		case <-timer.C:
			for path, kind := range pending {
				select {
				case w.Events <- Change{Path: path, Kind: kind}:
				case <-w.closeCh:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) ChangeKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec
	case ".tengo":
		return ChangeScript
	}
	return 0
}

// Package watch reruns generation when model files change.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 200 * time.Millisecond

// Options configures New.
type Options struct {
	// Dirs are watched non-recursively.
	Dirs []string

	// Match reports whether a changed path should trigger a rerun.
	// Nil matches everything.
	Match func(path string) bool

	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches model directories.
type Watcher struct {
	w        *fsnotify.Watcher
	match    func(string) bool
	debounce time.Duration
	log      *zap.Logger
}

// New starts watching opts.Dirs. Changes are only acted on once Run is
// called; Close releases the watcher.
func New(opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	for _, dir := range opts.Dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}
	w := &Watcher{
		w:        fw,
		match:    opts.Match,
		debounce: opts.Debounce,
		log:      opts.Logger,
	}
	if w.match == nil {
		w.match = func(string) bool { return true }
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	return w, nil
}

// Run calls fn after each burst of matching changes until ctx is done.
// Calls never overlap. An error from fn is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) || !w.match(ev.Name) {
				continue
			}
			w.log.Debug("change detected", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				w.log.Error("regenerate failed", zap.Error(err))
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}

func relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	// Editor swap and temp files.
	base := filepath.Base(ev.Name)
	return base != "" && base[0] != '.' && base[len(base)-1] != '~'
}

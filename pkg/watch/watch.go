// Package watch re-resolves a profile whenever the profile file of a project
// directory changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/kprof/pkg/log"
	"github.com/macropower/kprof/pkg/profile"
)

// DefaultDebounce is how long events are collected before re-resolving.
const DefaultDebounce = 100 * time.Millisecond

var ErrWatcherClosed = errors.New("watcher closed")

// Finder resolves a profile by name.
type Finder interface {
	Find(ctx context.Context, name, dir string) (*profile.Profile, error)
}

// Handler receives each resolution result. Exactly one of p and err is set.
type Handler func(ctx context.Context, p *profile.Profile, err error)

// Watcher watches the profile file of a directory.
type Watcher struct {
	finder   Finder
	fsw      *fsnotify.Watcher
	tracer   trace.Tracer
	files    map[string]struct{}
	dir      string
	name     string
	debounce time.Duration
}

// WatcherOpt configures a [Watcher].
type WatcherOpt func(*Watcher)

// WithDebounce sets the delay between the last file event and the
// re-resolution it triggers.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a [Watcher] for the named profile in dir. The directory must
// exist; the profile file itself may be created later.
func New(finder Finder, dir, name string, opts ...WatcherOpt) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = fsw.Add(absDir)
	if err != nil {
		closeErr := fsw.Close()

		return nil, errors.Join(fmt.Errorf("add path to watcher: %w", err), closeErr)
	}

	w := &Watcher{
		finder:   finder,
		fsw:      fsw,
		tracer:   otel.Tracer("profile-watcher"),
		files:    map[string]struct{}{},
		dir:      absDir,
		name:     name,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, f := range profile.FileNames("") {
		w.files[filepath.Join(absDir, f)] = struct{}{}
	}

	return w, nil
}

// Run calls handler with the current resolution, then again after every
// change to the profile file. It returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	w.resolve(ctx, handler)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}

			if !w.isWatched(evt) {
				continue
			}

			log.WithContext(ctx).DebugContext(ctx, "profile file changed",
				slog.String("event", evt.String()),
			)
			timer.Reset(w.debounce)

		case <-timer.C:
			w.resolve(ctx, handler)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}

			handler(ctx, nil, fmt.Errorf("watch %s: %w", w.dir, err))
		}
	}
}

func (w *Watcher) isWatched(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return false
	}

	_, ok := w.files[filepath.Clean(evt.Name)]

	return ok
}

func (w *Watcher) resolve(ctx context.Context, handler Handler) {
	ctx, span := w.tracer.Start(ctx, "resolve on change", trace.WithAttributes(
		attribute.String("profile", w.name),
		attribute.String("dir", w.dir),
	))
	defer span.End()

	p, err := w.finder.Find(ctx, w.name, w.dir)
	if err != nil {
		span.RecordError(err)
		handler(ctx, nil, err)

		return
	}

	handler(ctx, p, nil)
}

// Close stops watching. A running [Watcher.Run] returns [ErrWatcherClosed].
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/conneg/internal/observability"
)

// DefaultDebounceDelay coalesces the burst of events an editor produces when
// saving a file.
const DefaultDebounceDelay = 100 * time.Millisecond

// ConfigCallback receives each accepted configuration.
type ConfigCallback func(*Config)

// ErrorCallback receives the reason a reload was rejected.
type ErrorCallback func(error)

// CheckFunc vets a parsed and validated configuration before it is
// accepted, for example by building the formatters it declares.
type CheckFunc func(*Config) error

// Watcher reloads a configuration file when it changes. A file that fails
// to load, validate or pass the check is rejected and the previous
// configuration stays current.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	apply    ConfigCallback
	onError  ErrorCallback
	check    CheckFunc
	logger   observability.Logger
	debounce time.Duration

	current atomic.Pointer[Config]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the file must be quiet before a reload.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = delay
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger.Named("config")
		}
	}
}

// WithErrorCallback is called for every rejected reload.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.onError = callback
	}
}

// WithCheck runs check after validation on every load.
func WithCheck(check CheckFunc) WatcherOption {
	return func(w *Watcher) {
		w.check = check
	}
}

// NewWatcher creates a watcher for path; apply may be nil.
func NewWatcher(path string, apply ConfigCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		path:     absPath,
		fs:       fs,
		apply:    apply,
		logger:   observability.NopLogger(),
		debounce: DefaultDebounceDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start loads the file, failing if it is not acceptable, and then watches
// it until ctx is done or Stop is called. The callback is not invoked for
// this first load. The parent directory is watched so that editors which
// replace the file are noticed. Starting a running watcher does nothing.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}

	cfg, err := w.load()
	if err != nil {
		return err
	}
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.current.Store(cfg)

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.run(ctx, w.done)

	w.logger.Info("watching configuration",
		observability.String("path", w.path),
		observability.String("name", cfg.Metadata.Name),
	)
	return nil
}

// Stop stops watching and releases the file watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return w.fs.Close()
}

// Current returns the last accepted configuration, or nil before Start.
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// ForceReload loads the file now. An acceptable configuration becomes
// current and is passed to the callback.
func (w *Watcher) ForceReload() error {
	cfg, err := w.load()
	if err != nil {
		return err
	}

	w.current.Store(cfg)
	if w.apply != nil {
		w.apply(cfg)
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.affects(event) {
				continue
			}
			w.logger.Debug("configuration file changed", observability.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher failed", observability.Error(err))
			w.reject(err)
		}
	}
}

// affects reports whether event changed the watched file's content.
func (w *Watcher) affects(event fsnotify.Event) bool {
	return filepath.Clean(event.Name) == w.path &&
		(event.Has(fsnotify.Write) || event.Has(fsnotify.Create))
}

func (w *Watcher) reload() {
	if err := w.ForceReload(); err != nil {
		w.logger.Error("configuration rejected, keeping previous one",
			observability.String("path", w.path),
			observability.Error(err),
		)
		w.reject(err)
		return
	}
	w.logger.Info("configuration reloaded", observability.String("name", w.Current().Metadata.Name))
}

func (w *Watcher) load() (*Config, error) {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if w.check != nil {
		if err := w.check(cfg); err != nil {
			return nil, fmt.Errorf("configuration check failed: %w", err)
		}
	}
	return cfg, nil
}

func (w *Watcher) reject(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

// Package registry keeps compiled Definitions by name.
// A Registry is backed by a ports.DescriptionLoader and is safe for concurrent use.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lexfsm/internal/compiler"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// ErrNotWatchable is returned by Watch when the loader cannot report changes.
var ErrNotWatchable = errors.New("loader does not support watching")

// LoadObserver is notified after every load attempt.
type LoadObserver func(name string, elapsed time.Duration, err error)

// Registry manages the compiled definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*domain.Definition

	loader      ports.DescriptionLoader
	parser      *compiler.Parser
	logger      *slog.Logger
	concurrency int
	observers   []LoadObserver
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithConcurrency bounds the number of descriptions LoadAll compiles at once.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		r.concurrency = n
	}
}

// WithLoadObserver registers a callback invoked after each load.
func WithLoadObserver(fn LoadObserver) Option {
	return func(r *Registry) {
		r.observers = append(r.observers, fn)
	}
}

// NewRegistry creates an empty registry reading from loader.
// loader may be nil for registries populated only through Register.
func NewRegistry(loader ports.DescriptionLoader, opts ...Option) *Registry {
	r := &Registry{
		defs:        make(map[string]*domain.Definition),
		loader:      loader,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.parser = compiler.NewParser(compiler.WithLogger(r.logger))
	return r
}

// Register adds a definition under its own name.
// If a definition with the same name exists, it is overwritten.
func (r *Registry) Register(def *domain.Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name()] = def
}

// Remove drops the definition called name, if any.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defs, name)
}

// Get looks up a compiled definition by name.
func (r *Registry) Get(name string) (*domain.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load fetches, compiles and registers the description called name.
// A failed load leaves any previously registered definition in place.
func (r *Registry) Load(ctx context.Context, name string) (*domain.Definition, error) {
	if r.loader == nil {
		return nil, fmt.Errorf("%w: %s (registry has no loader)", domain.ErrDescriptionNotFound, name)
	}

	start := time.Now()
	def, err := r.compile(ctx, name)
	elapsed := time.Since(start)

	for _, observe := range r.observers {
		observe(name, elapsed, err)
	}
	if err != nil {
		r.logger.Warn("description load failed", "name", name, "err", err)
		return nil, err
	}

	r.Register(def)
	r.logger.Debug("description loaded", "name", name, "elapsed", elapsed)
	return def, nil
}

func (r *Registry) compile(ctx context.Context, name string) (*domain.Definition, error) {
	data, err := r.loader.GetDescription(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return r.parser.Parse(name, data)
}

// LoadAll compiles every description the loader lists, in parallel.
// Every description is attempted; the returned error joins all failures.
func (r *Registry) LoadAll(ctx context.Context) error {
	if r.loader == nil {
		return nil
	}
	names, err := r.loader.ListDescriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list descriptions: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, name := range names {
		g.Go(func() error {
			if _, err := r.Load(gctx, name); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			// Keep going so one bad description does not hide the others.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Info("registry loaded", "descriptions", len(names), "failed", len(errs))
	return errors.Join(errs...)
}

// Watch reloads descriptions as the loader reports changes, until ctx is done.
// A change to a description that can no longer be fetched removes it from the registry.
func (r *Registry) Watch(ctx context.Context) error {
	watchable, ok := r.loader.(ports.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	events, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch descriptions: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-events:
			if !ok {
				return nil
			}
			r.logger.Info("change detected, reloading", "name", name)
			if _, err := r.Load(ctx, name); errors.Is(err, domain.ErrDescriptionNotFound) {
				r.Remove(name)
			}
		}
	}
}

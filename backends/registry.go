// Package backends provides the persistence backends the tree can be stored in
// and a registry to select them by name.
package backends

import (
	"context"
	"fmt"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/puzpuzpuz/xsync/v4"
)

// Opener creates a ready to use backend from the session config
type Opener func(ctx context.Context, cfg *config.Config) (memfs.Backend, error)

// Registry maps backend names to their [Opener]
type Registry struct {
	openers *xsync.Map[string, Opener]
}

func NewRegistry() *Registry {
	return &Registry{openers: xsync.NewMap[string, Opener]()}
}

// Register ties an opener to a backend name. The first registration for a
// name wins; later ones are ignored.
func (r *Registry) Register(name string, open Opener) {
	r.openers.LoadOrStore(name, open)
}

// GetOpener returns the opener registered under name
func (r *Registry) GetOpener(name string) (Opener, error) {
	open, ok := r.openers.Load(name)
	if !ok {
		return nil, fmt.Errorf("no backend registered for %q", name)
	}
	return open, nil
}

// Names returns the registered backend names in no particular order
func (r *Registry) Names() []string {
	names := make([]string, 0, r.openers.Size())
	r.openers.Range(func(name string, _ Opener) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Open picks the opener named by cfg.Backend and runs it
func (r *Registry) Open(ctx context.Context, cfg *config.Config) (memfs.Backend, error) {
	open, err := r.GetOpener(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return open(ctx, cfg)
}

var defaultRegistry = NewRegistry()

// Register adds an opener to the default registry
func Register(name string, open Opener) {
	defaultRegistry.Register(name, open)
}

// Open opens cfg.Backend from the default registry.
// Built-ins must be registered first with [RegisterBuiltins].
func Open(ctx context.Context, cfg *config.Config) (memfs.Backend, error) {
	return defaultRegistry.Open(ctx, cfg)
}

package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider is a named, swappable backend: a capture device, a
// transcription endpoint or a key-value store.
type Provider interface {
	Name() string
	// IsAvailable probes the backend. It backs component health checks.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a T from its configuration.
type Factory[T Provider, C any] func(cfg C) (T, error)

// Registry maps backend names to factories sharing one config type.
type Registry[T Provider, C any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T, C]
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider, C any]() *Registry[T, C] {
	return &Registry[T, C]{factories: make(map[string]Factory[T, C])}
}

// RegisterFactory registers a named factory. A later registration replaces
// an earlier one with the same name.
func (r *Registry[T, C]) RegisterFactory(name string, factory Factory[T, C]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates a provider using the named factory.
func (r *Registry[T, C]) Create(name string, cfg C) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider factory %q not registered (have %v)", name, r.List())
	}
	return factory(cfg)
}

// Has reports whether a factory is registered under name.
func (r *Registry[T, C]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// List returns sorted names of all registered factories.
func (r *Registry[T, C]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

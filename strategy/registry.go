package strategy

import (
	"fmt"
	"sync"
)

// Tags of the built-in strategies.
const (
	TagBreadthFirst = "breadth-first"
	TagBestFirst    = "best-first"
)

// Factory creates a fresh Strategy instance. Each search tree gets its own.
type Factory func() Strategy

// Registry manages strategy factories by tag.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a Registry with the built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}
	r.factories[TagBreadthFirst] = func() Strategy { return NewBreadthFirst() }
	r.factories[TagBestFirst] = func() Strategy { return NewBestFirst() }

	return r
}

// Register adds a custom strategy factory to the registry.
func (r *Registry) Register(tag string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("strategy already registered: %q", tag)
	}
	r.factories[tag] = f

	return nil
}

// New instantiates the strategy registered under tag.
func (r *Registry) New(tag string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %q", tag)
	}

	return f(), nil
}

// Names returns the tags of all registered strategies.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		names = append(names, tag)
	}

	return names
}

package dispatch

import (
	"fmt"
	"sync"

	"github.com/recordkit/recordkit/internal/schema"
)

// Factory constructs a handler instance over a record batch. The describe is
// the entity's metadata snapshot for the dispatch; factories typically pass
// both straight into NewBase.
type Factory func(describe *schema.EntityDescribe, records []map[string]any) Handler

// Registry maps entity type names to handler factories. Factories are
// registered explicitly at process start; there is no name synthesis or
// reflective lookup. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty factory registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for an entity type.
func (r *Registry) Register(entity string, factory Factory) error {
	if entity == "" {
		return fmt.Errorf("entity name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory for %s must not be nil", entity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[entity]; exists {
		return fmt.Errorf("handler factory for %s is already registered", entity)
	}

	r.factories[entity] = factory
	return nil
}

// Resolve returns the factory for an entity type.
func (r *Registry) Resolve(entity string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[entity]
	return factory, ok
}

// Entities returns the names of all entity types with a registered factory.
func (r *Registry) Entities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

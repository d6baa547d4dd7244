package schema

import (
	"context"
	"fmt"
	"sync"
)

// ErrEntityNotFound is returned when a describe is requested for an entity
// the registry does not know.
var ErrEntityNotFound = fmt.Errorf("entity not found")

// Registry is a static, in-process Provider backed by registered describes.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*EntityDescribe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*EntityDescribe),
	}
}

// Register adds an entity describe to the registry.
func (r *Registry) Register(describe *EntityDescribe) error {
	if describe == nil || describe.Name == "" {
		return fmt.Errorf("describe must have an entity name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[describe.Name]; exists {
		return fmt.Errorf("entity %s is already registered", describe.Name)
	}

	r.entities[describe.Name] = describe
	return nil
}

// Describe implements Provider.
func (r *Registry) Describe(_ context.Context, entity string) (*EntityDescribe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	describe, ok := r.entities[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entity)
	}
	return describe, nil
}

// Exists checks if an entity is registered.
func (r *Registry) Exists(entity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entities[entity]
	return ok
}

// List returns the names of all registered entities.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}

// Clear removes all registered entities (useful for testing).
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = make(map[string]*EntityDescribe)
}

package selector

import "errors"

// Common selector error types
var (
	// ErrNotInitialized is returned by every operation on a selector whose
	// construction degraded (empty entity name). Callers must treat the
	// instance as equivalent to a failed construction.
	ErrNotInitialized = errors.New("selector is not initialized")

	// ErrUnauthorized is returned at construction when object-level
	// security is active and the actor lacks read access to the entity.
	ErrUnauthorized = errors.New("read access to entity denied")

	// ErrEmptyIDSet is returned by SelectByID for an empty id list. A
	// malformed IN () predicate is never sent to the engine.
	ErrEmptyIDSet = errors.New("id list must not be empty")
)

package dispatch

import "errors"

// Common dispatch error types
var (
	// ErrHandlerNotFound is returned when no factory is registered for an
	// entity type. The dispatch aborts before any hook runs.
	ErrHandlerNotFound = errors.New("no handler factory registered")

	// ErrUnauthorized is returned when the actor lacks the entity-level
	// permission required by the event's operation. The after-phase hook
	// does not run.
	ErrUnauthorized = errors.New("entity-level permission denied")

	// ErrMissingOldState is returned when an event that requires a prior
	// record snapshot is built without one.
	ErrMissingOldState = errors.New("event requires an old-state batch")

	// ErrMissingNewState is returned when an event that requires a new
	// record batch is built without one.
	ErrMissingNewState = errors.New("event requires a new-state batch")
)

// IsUnauthorized returns true if the error is ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Package engine defines the persistence engine boundary: the component that
// actually executes a read query and returns rows. Selectors depend only on
// the Engine interface; SQLEngine is the shipped implementation over
// database/sql.
package engine

import "context"

// Engine executes a serialized read query and returns its rows in order.
// Execution is synchronous; provider failures are re-raised to the caller
// after classification, never retried.
type Engine interface {
	Query(ctx context.Context, query string) ([]map[string]any, error)
}

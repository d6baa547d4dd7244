// Package security defines the authorization context recordkit consumes:
// actor identity and per-record access lookups. The permission source (a
// sharing engine, an RBAC service, a Redis store) is external; this package
// fixes its shape and ships Redis-backed and in-memory implementations.
package security

import "context"

// RecordAccessSummary is the derived, read-only access state of one actor on
// one record.
type RecordAccessSummary struct {
	HasAll         bool   `json:"has_all"`
	HasDelete      bool   `json:"has_delete"`
	HasEdit        bool   `json:"has_edit"`
	HasRead        bool   `json:"has_read"`
	HasTransfer    bool   `json:"has_transfer"`
	MaxAccessLevel string `json:"max_access_level"`
}

// AccessProvider supplies actor identity and bulk per-record access lookups.
type AccessProvider interface {
	// CurrentActor returns the identity of the acting principal.
	CurrentActor(ctx context.Context) (string, error)
	// BulkAccess returns the access summary of one actor for a batch of
	// record identifiers. Unknown records are simply absent from the result.
	BulkAccess(ctx context.Context, recordIDs []string, actorID string) (map[string]RecordAccessSummary, error)
}

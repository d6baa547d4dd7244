// Package query provides pure string-building utilities for assembling the
// projection clause of a read query. No side effects, no I/O; the composer
// only knows the field names of the entity type it was built for.
package query

import (
	"sort"
	"strings"

	"github.com/recordkit/recordkit/internal/schema"
)

// RelatedField is a parent-traversal projection entry: a query path (for
// example "Parent__r.Name") and the field it resolves to. Related fields
// serialize in slice order so the clause is a deterministic, caller-visible
// contract.
type RelatedField struct {
	Path  string
	Field string
}

// Composer serializes field sets into projection clauses for one entity
// type. The field-name index is built once at construction.
type Composer struct {
	entity string
	index  map[string]struct{}
}

// NewComposer creates a composer bound to an entity describe.
func NewComposer(describe *schema.EntityDescribe) *Composer {
	index := make(map[string]struct{}, len(describe.Fields))
	for i := range describe.Fields {
		index[describe.Fields[i].Name] = struct{}{}
	}
	return &Composer{
		entity: describe.Name,
		index:  index,
	}
}

// Entity returns the entity type name the composer is bound to.
func (c *Composer) Entity() string { return c.entity }

// ProjectFields serializes a field set: unknown fields are dropped (stale
// field references must not poison the query), the rest are alpha-sorted
// and comma-joined.
func (c *Composer) ProjectFields(fields []string) string {
	known := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := c.index[field]; ok {
			known = append(known, field)
		}
	}
	sort.Strings(known)
	return strings.Join(known, ", ")
}

// ProjectRelatedFields serializes related-field paths as a comma-prefixed
// clause in slice order. Returns an empty string for an empty input.
// TODO: validate paths against the parent entity's describe once the
// metadata provider exposes relationship targets.
func (c *Composer) ProjectRelatedFields(related []RelatedField) string {
	if len(related) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, rf := range related {
		sb.WriteString(", ")
		sb.WriteString(rf.Path)
	}
	return sb.String()
}

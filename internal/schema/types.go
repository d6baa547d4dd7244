// Package schema defines the describe-metadata model for entity types and the
// provider interface through which the rest of recordkit consumes it. The
// catalog that produces describes (a database information schema, a platform
// metadata API, a static file) is external; this package only fixes its shape.
package schema

import (
	"context"
	"fmt"
)

// FieldDescribe is the describe snapshot for a single field of an entity.
type FieldDescribe struct {
	Name              string
	Nillable          bool // field accepts null on write
	DefaultedOnCreate bool // persistence layer supplies a value when omitted
	IsID              bool // the entity's identifier field
	IsLookupID        bool // foreign identifier referencing a parent entity
	IsName            bool // the entity's human-readable name field
	Readable          bool // current actor may read this field
	Createable        bool // current actor may set this field on insert
}

// Required reports whether the field must be part of every projection.
// Identifier and lookup-identifier fields anchor row identity; non-nillable
// fields without a create default break insert semantics in calling code
// when omitted.
func (f *FieldDescribe) Required() bool {
	if f.IsID || f.IsLookupID {
		return true
	}
	return !f.Nillable && !f.DefaultedOnCreate
}

// EntityDescribe is the describe snapshot for an entity type. Field order is
// the catalog's declaration order.
type EntityDescribe struct {
	Name   string
	Fields []FieldDescribe

	Accessible bool
	Createable bool
	Updateable bool
	Deletable  bool
}

// Field returns the describe for the named field, if present.
func (e *EntityDescribe) Field(name string) (*FieldDescribe, bool) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// HasField returns true if the entity defines a field with the given name.
func (e *EntityDescribe) HasField(name string) bool {
	_, ok := e.Field(name)
	return ok
}

// IDField returns the identifier field describe.
func (e *EntityDescribe) IDField() (*FieldDescribe, error) {
	for i := range e.Fields {
		if e.Fields[i].IsID {
			return &e.Fields[i], nil
		}
	}
	return nil, fmt.Errorf("entity %s has no identifier field", e.Name)
}

// NameField returns the name field describe, if the entity has one.
func (e *EntityDescribe) NameField() (*FieldDescribe, bool) {
	for i := range e.Fields {
		if e.Fields[i].IsName {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns every field name in declaration order.
func (e *EntityDescribe) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for i := range e.Fields {
		names = append(names, e.Fields[i].Name)
	}
	return names
}

// RequiredFieldNames returns the names of every field a projection must
// carry regardless of caller intent: the identifier field, lookup identifier
// fields, and non-nillable fields without a create default.
func (e *EntityDescribe) RequiredFieldNames() []string {
	var names []string
	for i := range e.Fields {
		if e.Fields[i].Required() {
			names = append(names, e.Fields[i].Name)
		}
	}
	return names
}

// Provider supplies describe snapshots for entity types. Implementations are
// expected to be safe for concurrent use; the describe returned is treated as
// immutable for the duration of the call that obtained it.
type Provider interface {
	Describe(ctx context.Context, entity string) (*EntityDescribe, error)
}

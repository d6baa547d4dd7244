// Package selector builds and issues security-aware read queries for one
// entity type. A selector owns a base field set and an ordered related-field
// list, resolves the final projection against the entity's describe metadata
// (required fields are always included, unreadable fields are dropped when
// field-level security is active), and serializes id- and predicate-based
// fetches for the persistence engine.
package selector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/recordkit/recordkit/internal/engine"
	"github.com/recordkit/recordkit/internal/query"
	"github.com/recordkit/recordkit/internal/schema"
	"github.com/recordkit/recordkit/internal/security"
	"go.uber.org/zap"
)

// RelatedField aliases the composer's related projection entry.
type RelatedField = query.RelatedField

// Config carries the selector's external collaborators. All are passed
// explicitly; selectors hold no ambient actor or schema state.
type Config struct {
	Metadata schema.Provider
	Engine   engine.Engine
	Access   security.AccessProvider
	Logger   *zap.Logger
}

// Option configures a selector at construction.
type Option func(*Selector)

// WithObjectSecurity toggles entity-level read enforcement at construction.
// Default is on.
func WithObjectSecurity(enforce bool) Option {
	return func(s *Selector) {
		s.enforceObject = enforce
	}
}

// WithFieldSecurity toggles field-level read filtering of the projection.
// Default is off.
func WithFieldSecurity(enforce bool) Option {
	return func(s *Selector) {
		s.enforceField = enforce
	}
}

// WithOrderBy overrides the default order-by clause.
func WithOrderBy(clause string) Option {
	return func(s *Selector) {
		s.orderBy = clause
	}
}

// Selector builds read queries for one entity type. Construct one per
// query-building session; instances are not safe for concurrent use.
type Selector struct {
	entity   string
	describe *schema.EntityDescribe
	composer *query.Composer

	baseFields map[string]struct{}
	related    []RelatedField
	orderBy    string

	enforceObject bool
	enforceField  bool

	eng    engine.Engine
	access security.AccessProvider
	log    *zap.Logger

	initialized bool
}

// New creates a selector for an entity with the given declared base fields.
//
// An empty entity name degrades to an unusable instance instead of failing:
// the defect is logged and every later operation returns ErrNotInitialized.
// This keeps schema-definition mistakes during development from panicking
// process start while still refusing to issue queries.
func New(ctx context.Context, entity string, baseFields []string, cfg Config, opts ...Option) (*Selector, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Selector{
		entity:        entity,
		baseFields:    make(map[string]struct{}),
		enforceObject: true,
		enforceField:  false,
		eng:           cfg.Engine,
		access:        cfg.Access,
		log:           log,
	}
	for _, opt := range opts {
		opt(s)
	}

	if entity == "" {
		log.Error("selector constructed without an entity type; instance is unusable")
		return s, nil
	}

	describe, err := cfg.Metadata.Describe(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", entity, err)
	}

	if s.enforceObject && !describe.Accessible {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, entity)
	}

	s.describe = describe
	s.composer = query.NewComposer(describe)
	s.initialized = true

	for _, field := range baseFields {
		s.baseFields[field] = struct{}{}
	}
	s.resolveFields()

	if s.orderBy == "" {
		s.orderBy = defaultOrderBy(describe)
	}

	return s, nil
}

// defaultOrderBy orders by the name field ascending, falling back to the
// identifier field when the entity has no name field.
func defaultOrderBy(describe *schema.EntityDescribe) string {
	if name, ok := describe.NameField(); ok {
		return name.Name + " ASC"
	}
	if id, err := describe.IDField(); err == nil {
		return id.Name + " ASC"
	}
	return ""
}

// Entity returns the entity type name.
func (s *Selector) Entity() string { return s.entity }

// OrderBy returns the active order-by clause.
func (s *Selector) OrderBy() string { return s.orderBy }

// resolveFields unions the required field set into the base set, then drops
// fields the actor cannot read when field-level security is active. Running
// it again after it has already filtered changes nothing.
func (s *Selector) resolveFields() {
	for _, name := range s.describe.RequiredFieldNames() {
		s.baseFields[name] = struct{}{}
	}

	if !s.enforceField {
		return
	}
	for name := range s.baseFields {
		field, ok := s.describe.Field(name)
		if !ok {
			continue // unknown names are dropped at serialization
		}
		if !field.Readable {
			delete(s.baseFields, name)
		}
	}
}

// AddBaseFields unions fields into the base set. Empty input is a no-op.
// Idempotent; field-level filtering re-runs when active.
func (s *Selector) AddBaseFields(fields ...string) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if len(fields) == 0 {
		return nil
	}
	for _, field := range fields {
		s.baseFields[field] = struct{}{}
	}
	s.resolveFields()
	return nil
}

// AddAllFields unions every field the entity defines into the base set.
func (s *Selector) AddAllFields() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	for _, name := range s.describe.FieldNames() {
		s.baseFields[name] = struct{}{}
	}
	s.resolveFields()
	return nil
}

// AddRelatedFields appends path->field entries in order, skipping paths
// already present. Paths must traverse upward (parent) relationships only;
// child or cyclic paths are a caller contract violation and fail at query
// time, not here.
func (s *Selector) AddRelatedFields(related ...RelatedField) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	for _, rf := range related {
		if s.hasRelatedPath(rf.Path) {
			continue
		}
		s.related = append(s.related, rf)
	}
	return nil
}

func (s *Selector) hasRelatedPath(path string) bool {
	for _, rf := range s.related {
		if rf.Path == path {
			return true
		}
	}
	return false
}

// Fields returns the resolved base field set, alpha-sorted.
func (s *Selector) Fields() []string {
	fields := make([]string, 0, len(s.baseFields))
	for name := range s.baseFields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// FieldClause serializes the resolved projection: alpha-sorted base fields,
// then the related-field paths in append order.
func (s *Selector) FieldClause() (string, error) {
	if !s.initialized {
		return "", ErrNotInitialized
	}
	return s.composer.ProjectFields(s.Fields()) + s.composer.ProjectRelatedFields(s.related), nil
}

// SelectByID fetches records by identifier. Ids serialize quoted and
// comma-joined; duplicates collapse to one occurrence, first position wins.
// An empty id list fails with ErrEmptyIDSet rather than sending a malformed
// IN () predicate.
func (s *Selector) SelectByID(ctx context.Context, ids []string) ([]map[string]any, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if len(ids) == 0 {
		return nil, ErrEmptyIDSet
	}

	idField, err := s.describe.IDField()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(ids))
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		quoted = append(quoted, pq.QuoteLiteral(id))
	}

	predicate := fmt.Sprintf("%s IN (%s)", idField.Name, strings.Join(quoted, ","))
	return s.SelectWhere(ctx, predicate)
}

// SelectWhere fetches records matching a caller-supplied predicate clause.
// The predicate is substituted into the query verbatim: this layer does not
// parameterize or escape it, so it must never be built from untrusted input.
func (s *Selector) SelectWhere(ctx context.Context, predicate string) ([]map[string]any, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	clause, err := s.FieldClause()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		clause, s.describe.Name, predicate, s.orderBy)

	s.log.Debug("executing query",
		zap.String("entity", s.entity),
		zap.String("query", q),
	)

	records, err := s.eng.Query(ctx, q)
	if err != nil {
		// Engine failures propagate unchanged; retries are not this
		// layer's business.
		return nil, err
	}
	return records, nil
}

// RecordAccess bulk-fetches the actor's access summaries for a batch of
// record identifiers. An empty batch yields an empty result without a
// provider round trip.
func (s *Selector) RecordAccess(ctx context.Context, ids []string, actorID string) (map[string]security.RecordAccessSummary, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return RecordAccess(ctx, s.access, ids, actorID)
}

// RecordAccess is the entity-agnostic form of Selector.RecordAccess.
func RecordAccess(ctx context.Context, provider security.AccessProvider, ids []string, actorID string) (map[string]security.RecordAccessSummary, error) {
	if len(ids) == 0 {
		return map[string]security.RecordAccessSummary{}, nil
	}
	return provider.BulkAccess(ctx, ids, actorID)
}

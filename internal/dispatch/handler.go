package dispatch

import (
	"github.com/recordkit/recordkit/internal/schema"
	"go.uber.org/zap"
)

// Handler is the lifecycle hook set for one entity type. A handler instance
// is valid for exactly one phase invocation and owns its record batch for
// that duration; hooks may mutate the batch in place. Hooks receiving an
// old-state or new-state lookup must treat it as a read-only snapshot.
type Handler interface {
	// Entity returns the entity type name the handler serves.
	Entity() string
	// Records returns the record batch the handler operates on.
	Records() []map[string]any
	// AuthorizationEnforced reports whether entity-level permission checks
	// apply to this handler's after-phase dispatches.
	AuthorizationEnforced() bool

	// ApplyDefaults populates derived or defaulted fields before insert.
	ApplyDefaults() error
	// Validate checks the batch independent of prior state.
	Validate() error
	// ValidateWithOld checks the batch against its prior state.
	ValidateWithOld(old map[string]map[string]any) error

	BeforeInsert() error
	BeforeUpdate(old map[string]map[string]any) error
	BeforeDelete() error
	BeforeUndelete() error

	AfterInsert() error
	AfterUpdate(old map[string]map[string]any) error
	AfterDelete() error
	AfterUndelete(new map[string]map[string]any) error
}

// Base is the no-op handler implementation concrete handlers embed,
// overriding any subset of hooks. The zero value is not usable; build it
// with NewBase from a factory.
type Base struct {
	records     []map[string]any
	entity      string
	describe    *schema.EntityDescribe
	enforceAuth bool
	log         *zap.Logger
}

// BaseOption configures a Base handler at construction.
type BaseOption func(*Base)

// WithoutAuthorization disables entity-level permission enforcement for
// dispatches through this handler. Enforcement is on by default.
func WithoutAuthorization() BaseOption {
	return func(b *Base) {
		b.enforceAuth = false
	}
}

// WithLogger sets the handler's logger.
func WithLogger(log *zap.Logger) BaseOption {
	return func(b *Base) {
		b.log = log
	}
}

// NewBase creates the embedded base for a concrete handler. describe is the
// entity's metadata snapshot, fetched once and immutable for the handler's
// lifetime.
func NewBase(entity string, describe *schema.EntityDescribe, records []map[string]any, opts ...BaseOption) Base {
	b := Base{
		records:     records,
		entity:      entity,
		describe:    describe,
		enforceAuth: true,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Entity returns the entity type name.
func (b *Base) Entity() string { return b.entity }

// Records returns the owned record batch.
func (b *Base) Records() []map[string]any { return b.records }

// Describe returns the entity's describe snapshot.
func (b *Base) Describe() *schema.EntityDescribe { return b.describe }

// AuthorizationEnforced reports whether permission checks apply.
func (b *Base) AuthorizationEnforced() bool { return b.enforceAuth }

// Logger returns the handler's logger.
func (b *Base) Logger() *zap.Logger { return b.log }

// ApplyDefaults is a no-op by default.
func (b *Base) ApplyDefaults() error { return nil }

// Validate is a no-op by default.
func (b *Base) Validate() error { return nil }

// ValidateWithOld is a no-op by default.
func (b *Base) ValidateWithOld(map[string]map[string]any) error { return nil }

// BeforeInsert is a no-op by default.
func (b *Base) BeforeInsert() error { return nil }

// BeforeUpdate is a no-op by default.
func (b *Base) BeforeUpdate(map[string]map[string]any) error { return nil }

// BeforeDelete is a no-op by default.
func (b *Base) BeforeDelete() error { return nil }

// BeforeUndelete is a no-op by default.
func (b *Base) BeforeUndelete() error { return nil }

// AfterInsert is a no-op by default.
func (b *Base) AfterInsert() error { return nil }

// AfterUpdate is a no-op by default.
func (b *Base) AfterUpdate(map[string]map[string]any) error { return nil }

// AfterDelete is a no-op by default.
func (b *Base) AfterDelete() error { return nil }

// AfterUndelete is a no-op by default.
func (b *Base) AfterUndelete(map[string]map[string]any) error { return nil }

package dispatch

import (
	"context"
	"fmt"

	"github.com/recordkit/recordkit/internal/schema"
	"go.uber.org/zap"
)

// Dispatcher drives mutation events through handler lifecycle hooks. The
// metadata provider and factory registry are passed in explicitly; the
// dispatcher carries no ambient actor or schema state.
type Dispatcher struct {
	registry *Registry
	metadata schema.Provider
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher over a factory registry and a metadata
// provider.
func NewDispatcher(registry *Registry, metadata schema.Provider, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		metadata: metadata,
		log:      log,
	}
}

// Dispatch routes one event for one entity type through its handler.
// Exactly one phase branch runs per invocation. Completion or an error is
// the only observable outcome; hooks mutate the batch in place and mutations
// already applied are not rolled back on a later error.
func (d *Dispatcher) Dispatch(ctx context.Context, entity string, event *Event) error {
	factory, ok := d.registry.Resolve(entity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, entity)
	}

	describe, err := d.metadata.Describe(ctx, entity)
	if err != nil {
		return fmt.Errorf("describe %s: %w", entity, err)
	}

	// Delete events carry no new state; the handler owns the old batch.
	handler := factory(describe, event.Batch())

	d.log.Debug("dispatching event",
		zap.String("entity", entity),
		zap.String("op", event.Op.String()),
		zap.String("phase", event.Phase.String()),
		zap.Int("batch_size", len(event.Batch())),
	)

	if event.Phase == PhaseBefore {
		return d.dispatchBefore(handler, event)
	}
	return d.dispatchAfter(handler, describe, event)
}

func (d *Dispatcher) dispatchBefore(handler Handler, event *Event) error {
	switch event.Op {
	case OpInsert:
		if err := handler.ApplyDefaults(); err != nil {
			return fmt.Errorf("hook apply_defaults: %w", err)
		}
		if err := handler.BeforeInsert(); err != nil {
			return fmt.Errorf("hook before_insert: %w", err)
		}
	case OpUpdate:
		if err := handler.BeforeUpdate(event.OldByID); err != nil {
			return fmt.Errorf("hook before_update: %w", err)
		}
	case OpDelete:
		if err := handler.BeforeDelete(); err != nil {
			return fmt.Errorf("hook before_delete: %w", err)
		}
	case OpUndelete:
		if err := handler.BeforeUndelete(); err != nil {
			return fmt.Errorf("hook before_undelete: %w", err)
		}
	}
	return nil
}

func (d *Dispatcher) dispatchAfter(handler Handler, describe *schema.EntityDescribe, event *Event) error {
	switch event.Op {
	case OpInsert:
		if err := d.checkAuthorization(handler, describe.Createable, "create"); err != nil {
			return err
		}
		if err := handler.Validate(); err != nil {
			return fmt.Errorf("hook validate: %w", err)
		}
		if err := handler.AfterInsert(); err != nil {
			return fmt.Errorf("hook after_insert: %w", err)
		}
	case OpUpdate:
		if err := d.checkAuthorization(handler, describe.Updateable, "update"); err != nil {
			return err
		}
		if err := handler.Validate(); err != nil {
			return fmt.Errorf("hook validate: %w", err)
		}
		if err := handler.ValidateWithOld(event.OldByID); err != nil {
			return fmt.Errorf("hook validate_with_old: %w", err)
		}
		if err := handler.AfterUpdate(event.OldByID); err != nil {
			return fmt.Errorf("hook after_update: %w", err)
		}
	case OpDelete:
		if err := d.checkAuthorization(handler, describe.Deletable, "delete"); err != nil {
			return err
		}
		if err := handler.AfterDelete(); err != nil {
			return fmt.Errorf("hook after_delete: %w", err)
		}
	case OpUndelete:
		if err := handler.AfterUndelete(event.NewByID); err != nil {
			return fmt.Errorf("hook after_undelete: %w", err)
		}
	}
	return nil
}

// checkAuthorization fails the dispatch when the actor lacks the entity
// permission for the operation. The after hook does not run on failure.
func (d *Dispatcher) checkAuthorization(handler Handler, permitted bool, permission string) error {
	if !handler.AuthorizationEnforced() || permitted {
		return nil
	}
	d.log.Warn("entity permission denied",
		zap.String("entity", handler.Entity()),
		zap.String("permission", permission),
	)
	return fmt.Errorf("%w: %s on %s", ErrUnauthorized, permission, handler.Entity())
}

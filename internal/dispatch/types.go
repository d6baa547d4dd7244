// Package dispatch routes record-mutation events through the lifecycle hooks
// of a per-entity-type handler. A raw event (insert/update/delete/undelete,
// split into a before- and an after-persistence phase) is bound to a handler
// instance built by a registered factory, and the dispatcher drives that
// instance through a fixed hook ordering, enforcing entity-level
// authorization at the after-phase boundaries.
package dispatch

import "fmt"

// Op represents the mutation operation of an event.
type Op int

const (
	// OpInsert represents an insert operation
	OpInsert Op = iota
	// OpUpdate represents an update operation
	OpUpdate
	// OpDelete represents a delete operation
	OpDelete
	// OpUndelete represents an undelete operation
	OpUndelete
)

// String returns the string representation of the operation.
func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpUndelete:
		return "undelete"
	default:
		return "unknown"
	}
}

// Phase represents the persistence phase of an event.
type Phase int

const (
	// PhaseBefore runs before the mutation is persisted
	PhaseBefore Phase = iota
	// PhaseAfter runs after the mutation is persisted
	PhaseAfter
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "before"
	case PhaseAfter:
		return "after"
	default:
		return "unknown"
	}
}

// Event is the immutable context of one dispatch invocation. Exactly one
// operation and one phase apply. The new-state batch is empty for delete;
// the old-state batch is empty for insert. Lookups key records by the
// entity's identifier field and must be treated as read-only snapshots by
// hooks.
type Event struct {
	Op    Op
	Phase Phase

	// Records is the ordered new-state batch (empty on delete).
	Records []map[string]any
	// OldRecords is the ordered old-state batch (update/delete/undelete).
	OldRecords []map[string]any

	// OldByID maps identifier -> prior record snapshot.
	OldByID map[string]map[string]any
	// NewByID maps identifier -> new record snapshot.
	NewByID map[string]map[string]any
}

// NewEvent builds an event for one mutation batch. idField names the
// entity's identifier field used to key the old/new lookups. Presence rules
// follow the operation: update, delete and undelete require an old-state
// batch; insert, update and undelete require a new-state batch.
func NewEvent(op Op, phase Phase, idField string, records, oldRecords []map[string]any) (*Event, error) {
	switch op {
	case OpInsert:
		if len(records) == 0 {
			return nil, fmt.Errorf("%s %s: %w", phase, op, ErrMissingNewState)
		}
	case OpUpdate, OpUndelete:
		if len(records) == 0 {
			return nil, fmt.Errorf("%s %s: %w", phase, op, ErrMissingNewState)
		}
		if len(oldRecords) == 0 {
			return nil, fmt.Errorf("%s %s: %w", phase, op, ErrMissingOldState)
		}
	case OpDelete:
		if len(oldRecords) == 0 {
			return nil, fmt.Errorf("%s %s: %w", phase, op, ErrMissingOldState)
		}
	default:
		return nil, fmt.Errorf("unknown operation: %d", op)
	}

	ev := &Event{
		Op:         op,
		Phase:      phase,
		Records:    records,
		OldRecords: oldRecords,
	}

	if len(oldRecords) > 0 {
		ev.OldByID = indexByID(oldRecords, idField)
	}
	if len(records) > 0 && op != OpInsert {
		ev.NewByID = indexByID(records, idField)
	}

	return ev, nil
}

// Batch returns the record batch the handler operates on: the new-state
// batch, or the old-state batch for delete (new state is empty then).
func (e *Event) Batch() []map[string]any {
	if e.Op == OpDelete {
		return e.OldRecords
	}
	return e.Records
}

// indexByID keys a batch by its identifier field. Records without an
// identifier value are skipped; they cannot participate in old/new lookups.
func indexByID(records []map[string]any, idField string) map[string]map[string]any {
	index := make(map[string]map[string]any, len(records))
	for _, rec := range records {
		id, ok := rec[idField].(string)
		if !ok || id == "" {
			continue
		}
		index[id] = rec
	}
	return index
}

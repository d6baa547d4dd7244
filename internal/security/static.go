package security

import (
	"context"
	"fmt"
	"sync"
)

// StaticStore is an in-memory AccessProvider for tests and single-process
// deployments. Safe for concurrent use.
type StaticStore struct {
	mu     sync.RWMutex
	actor  string
	grants map[string]map[string]RecordAccessSummary // actor -> record -> summary
}

// NewStaticStore creates a store acting as the given principal.
func NewStaticStore(actor string) *StaticStore {
	return &StaticStore{
		actor:  actor,
		grants: make(map[string]map[string]RecordAccessSummary),
	}
}

// Grant records an access summary for an actor on a record.
func (s *StaticStore) Grant(actorID, recordID string, summary RecordAccessSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grants[actorID] == nil {
		s.grants[actorID] = make(map[string]RecordAccessSummary)
	}
	s.grants[actorID][recordID] = summary
}

// CurrentActor implements AccessProvider.
func (s *StaticStore) CurrentActor(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.actor == "" {
		return "", fmt.Errorf("no acting principal configured")
	}
	return s.actor, nil
}

// BulkAccess implements AccessProvider.
func (s *StaticStore) BulkAccess(_ context.Context, recordIDs []string, actorID string) (map[string]RecordAccessSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]RecordAccessSummary, len(recordIDs))
	byRecord := s.grants[actorID]
	for _, id := range recordIDs {
		if summary, ok := byRecord[id]; ok {
			result[id] = summary
		}
	}
	return result, nil
}

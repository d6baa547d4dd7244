package security

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is an AccessProvider backed by Redis hashes. Each grant lives
// at access:<actor>:<record> with one hash field per permission bit plus the
// max access level. Absent keys mean no access.
type RedisStore struct {
	client *redis.Client
	actor  string
}

// NewRedisStore creates a store over an existing Redis client, acting as
// the given principal.
func NewRedisStore(client *redis.Client, actor string) *RedisStore {
	return &RedisStore{
		client: client,
		actor:  actor,
	}
}

func grantKey(actorID, recordID string) string {
	return fmt.Sprintf("access:%s:%s", actorID, recordID)
}

// Grant writes an access summary for an actor on a record.
func (s *RedisStore) Grant(ctx context.Context, actorID, recordID string, summary RecordAccessSummary) error {
	fields := map[string]any{
		"has_all":          summary.HasAll,
		"has_delete":       summary.HasDelete,
		"has_edit":         summary.HasEdit,
		"has_read":         summary.HasRead,
		"has_transfer":     summary.HasTransfer,
		"max_access_level": summary.MaxAccessLevel,
	}
	if err := s.client.HSet(ctx, grantKey(actorID, recordID), fields).Err(); err != nil {
		return fmt.Errorf("failed to write grant: %w", err)
	}
	return nil
}

// Revoke removes an actor's grant on a record.
func (s *RedisStore) Revoke(ctx context.Context, actorID, recordID string) error {
	if err := s.client.Del(ctx, grantKey(actorID, recordID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke grant: %w", err)
	}
	return nil
}

// CurrentActor implements AccessProvider.
func (s *RedisStore) CurrentActor(context.Context) (string, error) {
	if s.actor == "" {
		return "", fmt.Errorf("no acting principal configured")
	}
	return s.actor, nil
}

// BulkAccess implements AccessProvider. Records without a grant are absent
// from the result.
func (s *RedisStore) BulkAccess(ctx context.Context, recordIDs []string, actorID string) (map[string]RecordAccessSummary, error) {
	result := make(map[string]RecordAccessSummary, len(recordIDs))
	if len(recordIDs) == 0 {
		return result, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(recordIDs))
	for _, id := range recordIDs {
		cmds[id] = pipe.HGetAll(ctx, grantKey(actorID, id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to read grants: %w", err)
	}

	for id, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		result[id] = RecordAccessSummary{
			HasAll:         fields["has_all"] == "1",
			HasDelete:      fields["has_delete"] == "1",
			HasEdit:        fields["has_edit"] == "1",
			HasRead:        fields["has_read"] == "1",
			HasTransfer:    fields["has_transfer"] == "1",
			MaxAccessLevel: fields["max_access_level"],
		}
	}
	return result, nil
}

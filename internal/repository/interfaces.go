package repository

import (
	"context"

	"github.com/takeru/enghub/internal/models"
)

// BlobRepository is the key-value blob store the progress store persists the
// serialized UserData aggregate into. Synchronous get/set string semantics;
// the store defines the shape and migration of the value, not the repository.
type BlobRepository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ActivityLogRepository handles the queryable projection of the activity
// history. The blob remains the canonical record; this table only serves
// filtered history reads.
type ActivityLogRepository interface {
	Insert(ctx context.Context, log models.ActivityLog) error
	List(ctx context.Context, filter models.LogFilter) ([]models.ActivityLog, error)
	Count(ctx context.Context, filter models.LogFilter) (int, error)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/repository"
)

type blobRepository struct {
	db *sql.DB
}

// NewBlobRepository creates a new BlobRepository implementation
func NewBlobRepository(db *sql.DB) repository.BlobRepository {
	return &blobRepository{db: db}
}

func (r *blobRepository) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("blob_repo")
	log.Debug("reading blob: key=%s", key)

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM user_blob WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("blob not found: key=%s", key)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to read blob: %v", err)
		return "", false, err
	}
	return value, true, nil
}

func (r *blobRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("blob_repo")
	log.Debug("writing blob: key=%s, size=%d", key, len(value))

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_blob (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		log.Error("failed to write blob: %v", err)
	}
	return err
}

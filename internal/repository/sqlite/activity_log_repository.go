package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/models"
	"github.com/takeru/enghub/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository implementation
func NewActivityLogRepository(db *sql.DB) repository.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Insert(ctx context.Context, log models.ActivityLog) error {
	l := logger.FromContext(ctx).WithPrefix("log_repo")
	l.Debug("inserting activity log: id=%s, type=%s", log.ID, log.Type)

	details := "{}"
	if log.Details != nil {
		raw, err := json.Marshal(log.Details)
		if err != nil {
			l.Error("failed to marshal log details: %v", err)
			return err
		}
		details = string(raw)
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO activity_logs (id, type, date, xp, details)
VALUES (?, ?, ?, ?, ?)
`, log.ID, string(log.Type), log.Date, log.XP, details)
	if err != nil {
		l.Error("failed to insert activity log: %v", err)
	}
	return err
}

func (r *activityLogRepository) List(ctx context.Context, filter models.LogFilter) ([]models.ActivityLog, error) {
	l := logger.FromContext(ctx).WithPrefix("log_repo")
	l.Debug("listing activity logs: type=%s, limit=%d, offset=%d", filter.Type, filter.Limit, filter.Offset)

	query := sqlBuilder.Select("id", "type", "date", "xp", "details").From("activity_logs")
	query = applyLogFilter(query, filter)

	// Safe ORDER BY with validation
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy("date " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query = query.Limit(uint64(limit))
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		l.Error("failed to build list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		l.Error("failed to list activity logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var (
			entry   models.ActivityLog
			typ     string
			details string
		)
		if err := rows.Scan(&entry.ID, &typ, &entry.Date, &entry.XP, &details); err != nil {
			l.Error("failed to scan activity log row: %v", err)
			return nil, err
		}
		entry.Type = models.ActivityType(typ)
		entry.Details = decodeDetails(entry.Type, details)
		logs = append(logs, entry)
	}

	l.Debug("found %d activity logs", len(logs))
	return logs, rows.Err()
}

func (r *activityLogRepository) Count(ctx context.Context, filter models.LogFilter) (int, error) {
	l := logger.FromContext(ctx).WithPrefix("log_repo")

	query := sqlBuilder.Select("COUNT(*)").From("activity_logs")
	query = applyLogFilter(query, filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		l.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		l.Error("failed to count activity logs: %v", err)
		return 0, err
	}
	return count, nil
}

func applyLogFilter(query squirrel.SelectBuilder, filter models.LogFilter) squirrel.SelectBuilder {
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": string(filter.Type)})
	}
	return query
}

// decodeDetails maps a stored details payload back onto its typed variant.
// Undecodable or unknown payloads degrade to nil rather than failing the read.
func decodeDetails(t models.ActivityType, raw string) models.ActivityDetails {
	switch t {
	case models.ActivityVocabulary:
		var d models.VocabularyDetails
		if json.Unmarshal([]byte(raw), &d) == nil {
			return d
		}
	case models.ActivityReading:
		var d models.ReadingDetails
		if json.Unmarshal([]byte(raw), &d) == nil {
			return d
		}
	case models.ActivityWriting:
		var d models.WritingDetails
		if json.Unmarshal([]byte(raw), &d) == nil {
			return d
		}
	}
	return nil
}

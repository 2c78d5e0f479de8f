package services

import (
	"context"
	"time"

	"github.com/takeru/enghub/internal/errors"
	"github.com/takeru/enghub/internal/gamification"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/models"
	"github.com/takeru/enghub/internal/progress"
	"github.com/takeru/enghub/internal/repository"
)

// BadgeStatus pairs a catalog badge with whether the user has earned it.
type BadgeStatus struct {
	models.Badge
	Earned bool `json:"earned"`
}

// ProgressService validates progression inputs and delegates to the store.
type ProgressService interface {
	GetProgress(ctx context.Context) models.UserData
	RecordActivity(ctx context.Context, event models.ActivityEvent) (models.ProgressResult, error)
	SetGoal(ctx context.Context, goal models.UserGoal) error
	ClearGoal(ctx context.Context)
	UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) (models.Preferences, error)
	AnswerWord(ctx context.Context, word string, correct bool) (models.WordMemoryStatus, error)
	ListBadges(ctx context.Context) []BadgeStatus
	CurrentMission(ctx context.Context) *models.DailyMission
	ActivityHistory(ctx context.Context, filter models.LogFilter) ([]models.ActivityLog, int, error)
}

type progressService struct {
	store *progress.Store
	logs  repository.ActivityLogRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(store *progress.Store, logs repository.ActivityLogRepository) ProgressService {
	return &progressService{store: store, logs: logs}
}

func (s *progressService) GetProgress(ctx context.Context) models.UserData {
	return s.store.Snapshot()
}

func (s *progressService) RecordActivity(ctx context.Context, event models.ActivityEvent) (models.ProgressResult, error) {
	log := logger.FromContext(ctx)

	if !models.ValidActivityType(event.Type) {
		return models.ProgressResult{}, errors.NewValidationError("type", "must be vocabulary, reading or writing")
	}
	if event.XP < 0 {
		return models.ProgressResult{}, errors.NewValidationError("xp", "must not be negative")
	}
	if err := validateDetails(event); err != nil {
		return models.ProgressResult{}, err
	}

	log.Debug("recording activity: type=%s, xp=%d", event.Type, event.XP)
	return s.store.RecordActivity(ctx, event), nil
}

// validateDetails checks the details variant agrees with the declared type.
// Details are optional; a mismatched variant is rejected.
func validateDetails(event models.ActivityEvent) error {
	if event.Details == nil {
		return nil
	}
	switch event.Details.(type) {
	case models.VocabularyDetails:
		if event.Type != models.ActivityVocabulary {
			return errors.NewValidationError("details", "vocabulary details on a non-vocabulary activity")
		}
	case models.ReadingDetails:
		if event.Type != models.ActivityReading {
			return errors.NewValidationError("details", "reading details on a non-reading activity")
		}
	case models.WritingDetails:
		if event.Type != models.ActivityWriting {
			return errors.NewValidationError("details", "writing details on a non-writing activity")
		}
	}
	return nil
}

func (s *progressService) SetGoal(ctx context.Context, goal models.UserGoal) error {
	if goal.Type != "xp" {
		return errors.NewValidationError("type", `must be "xp"`)
	}
	if goal.Target <= 0 {
		return errors.NewValidationError("target", "must be positive")
	}
	if goal.Timeframe == "" {
		goal.Timeframe = "weekly"
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = time.Now()
	}
	s.store.SetGoal(ctx, &goal)
	return nil
}

func (s *progressService) ClearGoal(ctx context.Context) {
	s.store.SetGoal(ctx, nil)
}

func (s *progressService) UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) (models.Preferences, error) {
	if patch.Level == nil && patch.LearningGoal == nil {
		return models.Preferences{}, errors.NewValidationError("preferences", "no fields to update")
	}
	if patch.Level != nil && *patch.Level == "" {
		return models.Preferences{}, errors.NewValidationError("level", "must not be empty")
	}
	if patch.LearningGoal != nil && *patch.LearningGoal == "" {
		return models.Preferences{}, errors.NewValidationError("learningGoal", "must not be empty")
	}
	return s.store.UpdatePreferences(ctx, patch), nil
}

func (s *progressService) AnswerWord(ctx context.Context, word string, correct bool) (models.WordMemoryStatus, error) {
	if word == "" {
		return models.WordMemoryStatus{}, errors.NewValidationError("word", "must not be empty")
	}
	return s.store.UpdateWordMemory(ctx, word, correct), nil
}

func (s *progressService) ListBadges(ctx context.Context) []BadgeStatus {
	data := s.store.Snapshot()

	out := make([]BadgeStatus, 0, len(gamification.BadgeCatalog))
	for _, b := range gamification.BadgeCatalog {
		out = append(out, BadgeStatus{Badge: b, Earned: data.HasBadge(b.ID)})
	}
	return out
}

func (s *progressService) CurrentMission(ctx context.Context) *models.DailyMission {
	return s.store.Snapshot().DailyMission
}

func (s *progressService) ActivityHistory(ctx context.Context, filter models.LogFilter) ([]models.ActivityLog, int, error) {
	log := logger.FromContext(ctx)

	if filter.Type != "" && !models.ValidActivityType(filter.Type) {
		return nil, 0, errors.NewValidationError("type", "must be vocabulary, reading or writing")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("limit", "limit and offset must not be negative")
	}

	logs, err := s.logs.List(ctx, filter)
	if err != nil {
		log.Error("failed to list activity history: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.logs.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count activity history: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return logs, total, nil
}

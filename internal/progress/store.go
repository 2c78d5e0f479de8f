// Package progress owns the canonical UserData aggregate: it loads and
// migrates the persisted blob at startup, funnels every mutation through the
// reducer/mission/badge pipeline, and writes the aggregate back after each
// change.
package progress

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/takeru/enghub/internal/gamification"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/models"
	"github.com/takeru/enghub/internal/repository"
)

// BlobKey is the single key the serialized aggregate lives under.
const BlobKey = "enghub-user"

// Store holds the one in-memory UserData snapshot. All mutators take the
// store lock for the whole read-modify-write-persist cycle, so two concurrent
// activity completions can never clobber each other's XP increment.
type Store struct {
	mu    sync.Mutex
	blobs repository.BlobRepository
	logs  repository.ActivityLogRepository
	now   func() time.Time
	rng   *rand.Rand
	data  models.UserData
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a time source. Used by tests; defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRand injects the randomness source used for mission selection.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithLogProjection enables the best-effort copy of recorded activities into
// the queryable history table.
func WithLogProjection(repo repository.ActivityLogRepository) Option {
	return func(s *Store) { s.logs = repo }
}

// NewStore creates a Store over the given blob repository. Call Load before
// any other method.
func NewStore(blobs repository.BlobRepository, opts ...Option) *Store {
	s := &Store{
		blobs: blobs,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) defaultUserData(now time.Time) models.UserData {
	return models.UserData{
		Level:       1,
		XP:          0,
		LastLogin:   now,
		LoginStreak: 1,
		Preferences: models.Preferences{
			Level:        "Intermediate",
			LearningGoal: "General English Improvement",
		},
		WordMemory:      map[string]models.WordMemoryStatus{},
		DailyMission:    gamification.NewDailyMission(s.rng),
		LastMissionDate: now,
	}
}

// Load reads and migrates the persisted aggregate, applies the login streak
// update and mission rotation, persists the result and returns a snapshot.
// Any read or parse failure falls back to fresh defaults; Load never fails.
func (s *Store) Load(ctx context.Context) models.UserData {
	log := logger.FromContext(ctx).WithPrefix("progress")

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	raw, found, err := s.blobs.Get(ctx, BlobKey)
	switch {
	case err != nil:
		log.Error("failed to read persisted state, starting fresh: %v", err)
		s.data = s.defaultUserData(now)
	case !found:
		log.Info("no persisted state, first run")
		s.data = s.defaultUserData(now)
	default:
		data, err := decodeUserData(raw)
		if err != nil {
			log.Error("persisted state unreadable, resetting to defaults: %v", err)
			s.data = s.defaultUserData(now)
		} else {
			data = gamification.ApplyLogin(data, now)
			if data.WordMemory == nil {
				data.WordMemory = map[string]models.WordMemoryStatus{}
			}
			if data.DailyMission == nil || !gamification.SameCalendarDay(data.LastMissionDate, now) {
				data.DailyMission = gamification.NewDailyMission(s.rng)
				data.LastMissionDate = now
				log.Debug("rotated daily mission: type=%s", data.DailyMission.Type)
			}
			s.data = data
		}
	}

	s.persist(ctx)
	return s.snapshotLocked()
}

// RecordActivity is the single mutating entry point for completed activities.
// Pipeline order: reducer, mission accrual (bonus folded into XP), level
// recompute, badge evaluation, persist.
func (s *Store) RecordActivity(ctx context.Context, event models.ActivityEvent) models.ProgressResult {
	log := logger.FromContext(ctx).WithPrefix("progress")

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.ActivityLog{
		ID:      uuid.NewString(),
		Type:    event.Type,
		Date:    s.now(),
		XP:      event.XP,
		Details: event.Details,
	}

	prevLevel := s.data.Level

	next := gamification.ApplyActivity(s.data, entry)

	mission, bonus := gamification.AccrueMission(next.DailyMission, entry)
	next.DailyMission = mission
	if bonus > 0 {
		next.XP += bonus
		next.Level = gamification.LevelForXP(next.XP)
		log.Info("daily mission completed, bonus awarded: type=%s, bonus=%d", mission.Type, bonus)
	}

	unlocked := gamification.EvaluateBadges(next)
	if len(unlocked) > 0 {
		badges := make([]string, len(next.Badges), len(next.Badges)+len(unlocked))
		copy(badges, next.Badges)
		for _, b := range unlocked {
			badges = append(badges, b.ID)
		}
		next.Badges = badges
	}

	s.data = next
	s.persist(ctx)
	s.projectLog(ctx, entry)

	names := make([]string, 0, len(unlocked))
	for _, b := range unlocked {
		names = append(names, b.Name)
	}
	if len(names) > 0 {
		log.Info("unlocked badges: %v", names)
	}

	return models.ProgressResult{
		XPEarned:       event.XP + bonus,
		UnlockedBadges: names,
		LeveledUp:      next.Level > prevLevel,
		NewLevel:       next.Level,
	}
}

// SetGoal replaces the user goal; nil clears it.
func (s *Store) SetGoal(ctx context.Context, goal *models.UserGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Goal = goal
	s.persist(ctx)
}

// UpdatePreferences merges a partial preferences update.
func (s *Store) UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Preferences = patch.Apply(s.data.Preferences)
	s.persist(ctx)
	return s.data.Preferences
}

// UpdateWordMemory folds one quiz answer into a word's spaced-exposure state
// and returns the new status.
func (s *Store) UpdateWordMemory(ctx context.Context, word string, correct bool) models.WordMemoryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	memory := make(map[string]models.WordMemoryStatus, len(s.data.WordMemory)+1)
	for k, v := range s.data.WordMemory {
		memory[k] = v
	}
	status := gamification.ApplyAnswer(memory[word], correct)
	memory[word] = status
	s.data.WordMemory = memory

	s.persist(ctx)
	return status
}

// AppendReadingHistory prepends a reading snapshot (history is newest-first).
// Missing id/date are stamped.
func (s *Store) AppendReadingHistory(ctx context.Context, item models.ReadingHistoryItem) models.ReadingHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Date.IsZero() {
		item.Date = s.now()
	}

	history := make([]models.ReadingHistoryItem, 0, len(s.data.ReadingHistory)+1)
	history = append(history, item)
	history = append(history, s.data.ReadingHistory...)
	s.data.ReadingHistory = history

	s.persist(ctx)
	return item
}

// Snapshot returns a copy of the current aggregate for read endpoints.
func (s *Store) Snapshot() models.UserData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.UserData {
	data := s.data

	data.Badges = append([]string(nil), s.data.Badges...)
	data.Logs = append([]models.ActivityLog(nil), s.data.Logs...)
	data.ReadingHistory = append([]models.ReadingHistoryItem(nil), s.data.ReadingHistory...)

	memory := make(map[string]models.WordMemoryStatus, len(s.data.WordMemory))
	for k, v := range s.data.WordMemory {
		memory[k] = v
	}
	data.WordMemory = memory

	if s.data.Goal != nil {
		goal := *s.data.Goal
		data.Goal = &goal
	}
	if s.data.DailyMission != nil {
		mission := *s.data.DailyMission
		data.DailyMission = &mission
	}
	return data
}

// persist writes the full serialized aggregate back to the blob store. Write
// failures are logged and swallowed: in-memory state stays authoritative for
// the session.
func (s *Store) persist(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("progress")

	raw, err := encodeUserData(s.data)
	if err != nil {
		log.Error("failed to serialize state: %v", err)
		return
	}
	if err := s.blobs.Set(ctx, BlobKey, raw); err != nil {
		log.Warn("failed to persist state, keeping in-memory copy: %v", err)
	}
}

// projectLog copies one activity into the queryable history table.
// Best-effort: projection failures never fail the activity.
func (s *Store) projectLog(ctx context.Context, entry models.ActivityLog) {
	if s.logs == nil {
		return
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		logger.FromContext(ctx).WithPrefix("progress").Warn("failed to project activity log: %v", err)
	}
}

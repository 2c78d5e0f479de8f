package services

import (
	"context"
	"strings"

	"github.com/takeru/enghub/internal/errors"
	"github.com/takeru/enghub/internal/gamification"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/models"
	"github.com/takeru/enghub/internal/progress"
)

// Generator is the generative collaborator the content service orchestrates.
// Satisfied by *genai.Client.
type Generator interface {
	GenerateReadingQuiz(ctx context.Context, topic, level string) (*models.ReadingQuizContent, error)
	EvaluateOpenAnswer(ctx context.Context, passage, question, answer string) (*models.OpenAnswerEvaluation, error)
	WritingFeedback(ctx context.Context, topic, essay string) (string, error)
	GenerateLearningPlan(ctx context.Context, prefs models.Preferences, recent []models.ActivityLog) (*models.LearningPlan, error)
}

// ReadingSession is a finished reading exercise as reported by the caller.
type ReadingSession struct {
	Topic       string                         `json:"topic"`
	Level       string                         `json:"level"`
	Content     models.ReadingQuizContent      `json:"content"`
	MCQAnswers  []*int                         `json:"userMcqAnswers"`
	OpenAnswers []string                       `json:"userOpenAnswers"`
	Evaluations []*models.OpenAnswerEvaluation `json:"evaluations"`
}

// ReadingSessionResult is the stored history item plus the progression outcome
// of the recorded activity.
type ReadingSessionResult struct {
	Item     models.ReadingHistoryItem `json:"item"`
	Progress models.ProgressResult     `json:"progress"`
}

// WritingFeedbackResult carries the generated feedback and the progression
// outcome of the writing activity it awarded.
type WritingFeedbackResult struct {
	Feedback string                `json:"feedback"`
	Progress models.ProgressResult `json:"progress"`
}

// ContentService orchestrates generative content and feeds finished exercises
// into progression. Progression is only touched after generation succeeds:
// a failed call awards nothing.
type ContentService interface {
	GenerateReadingQuiz(ctx context.Context, topic, level string) (*models.ReadingQuizContent, error)
	EvaluateOpenAnswer(ctx context.Context, passage, question, answer string) (*models.OpenAnswerEvaluation, error)
	SaveReadingSession(ctx context.Context, session ReadingSession) (ReadingSessionResult, error)
	WritingFeedback(ctx context.Context, topic, essay string) (WritingFeedbackResult, error)
	GenerateLearningPlan(ctx context.Context) (*models.LearningPlan, error)
}

type contentService struct {
	gen   Generator
	store *progress.Store
}

// NewContentService creates a new ContentService.
func NewContentService(gen Generator, store *progress.Store) ContentService {
	return &contentService{gen: gen, store: store}
}

func (s *contentService) GenerateReadingQuiz(ctx context.Context, topic, level string) (*models.ReadingQuizContent, error) {
	if topic == "" {
		return nil, errors.NewValidationError("topic", "must not be empty")
	}
	if level == "" {
		return nil, errors.NewValidationError("level", "must not be empty")
	}
	return s.gen.GenerateReadingQuiz(ctx, topic, level)
}

func (s *contentService) EvaluateOpenAnswer(ctx context.Context, passage, question, answer string) (*models.OpenAnswerEvaluation, error) {
	if passage == "" || question == "" {
		return nil, errors.NewValidationError("question", "passage and question must not be empty")
	}
	if strings.TrimSpace(answer) == "" {
		return nil, errors.NewValidationError("answer", "must not be empty")
	}
	return s.gen.EvaluateOpenAnswer(ctx, passage, question, answer)
}

// SaveReadingSession stores the finished exercise in reading history and
// records one reading activity. XP is earned per correct answer; there is no
// completion award beyond that.
func (s *contentService) SaveReadingSession(ctx context.Context, session ReadingSession) (ReadingSessionResult, error) {
	log := logger.FromContext(ctx)

	if session.Topic == "" {
		return ReadingSessionResult{}, errors.NewValidationError("topic", "must not be empty")
	}
	if session.Content.Passage == "" {
		return ReadingSessionResult{}, errors.NewValidationError("content", "passage must not be empty")
	}
	if len(session.MCQAnswers) != len(session.Content.MCQs) {
		return ReadingSessionResult{}, errors.NewValidationError("userMcqAnswers", "must match the number of questions")
	}

	mcqScore := 0
	for i, answer := range session.MCQAnswers {
		if answer != nil && *answer == session.Content.MCQs[i].CorrectAnswerIndex {
			mcqScore++
		}
	}
	openCorrect := 0
	for _, eval := range session.Evaluations {
		if eval != nil && eval.Verdict == "Correct" {
			openCorrect++
		}
	}

	xp := mcqScore*gamification.XPReadingMCQCorrect + openCorrect*gamification.XPReadingOpenCorrect
	log.Debug("saving reading session: topic=%s, mcq=%d/%d, open=%d/%d, xp=%d",
		session.Topic, mcqScore, len(session.Content.MCQs), openCorrect, len(session.Content.OpenQuestions), xp)

	item := s.store.AppendReadingHistory(ctx, models.ReadingHistoryItem{
		Topic:           session.Topic,
		Level:           session.Level,
		Content:         session.Content,
		UserMCQAnswers:  session.MCQAnswers,
		UserOpenAnswers: session.OpenAnswers,
		Evaluations:     session.Evaluations,
	})

	result := s.store.RecordActivity(ctx, models.ActivityEvent{
		Type: models.ActivityReading,
		XP:   xp,
		Details: models.ReadingDetails{
			Topic:       session.Topic,
			Level:       session.Level,
			MCQScore:    mcqScore,
			MCQTotal:    len(session.Content.MCQs),
			OpenCorrect: openCorrect,
			OpenTotal:   len(session.Content.OpenQuestions),
		},
	})

	return ReadingSessionResult{Item: item, Progress: result}, nil
}

// WritingFeedback generates feedback and, only once it arrives, records the
// writing activity. A generation failure leaves progression untouched.
func (s *contentService) WritingFeedback(ctx context.Context, topic, essay string) (WritingFeedbackResult, error) {
	if topic == "" {
		return WritingFeedbackResult{}, errors.NewValidationError("topic", "must not be empty")
	}
	words := strings.Fields(essay)
	if len(words) == 0 {
		return WritingFeedbackResult{}, errors.NewValidationError("essay", "must not be empty")
	}

	feedback, err := s.gen.WritingFeedback(ctx, topic, essay)
	if err != nil {
		return WritingFeedbackResult{}, err
	}

	result := s.store.RecordActivity(ctx, models.ActivityEvent{
		Type:    models.ActivityWriting,
		XP:      gamification.XPWritingSubmit,
		Details: models.WritingDetails{Topic: topic, WordCount: len(words)},
	})

	return WritingFeedbackResult{Feedback: feedback, Progress: result}, nil
}

// GenerateLearningPlan builds a plan from current preferences and the five
// most recent activities.
func (s *contentService) GenerateLearningPlan(ctx context.Context) (*models.LearningPlan, error) {
	data := s.store.Snapshot()

	recent := data.Logs
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	return s.gen.GenerateLearningPlan(ctx, data.Preferences, recent)
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/takeru/enghub/internal/errors"
	"github.com/takeru/enghub/internal/models"
	"github.com/takeru/enghub/internal/services"
)

type fakeProgress struct {
	data    models.UserData
	result  models.ProgressResult
	history []models.ActivityLog
	mission *models.DailyMission
	badges  []services.BadgeStatus
	err     error

	lastEvent  models.ActivityEvent
	lastFilter models.LogFilter
	lastGoal   models.UserGoal
	lastWord   string
	cleared    bool
}

func (f *fakeProgress) GetProgress(ctx context.Context) models.UserData { return f.data }

func (f *fakeProgress) RecordActivity(ctx context.Context, event models.ActivityEvent) (models.ProgressResult, error) {
	f.lastEvent = event
	return f.result, f.err
}

func (f *fakeProgress) SetGoal(ctx context.Context, goal models.UserGoal) error {
	f.lastGoal = goal
	return f.err
}

func (f *fakeProgress) ClearGoal(ctx context.Context) { f.cleared = true }

func (f *fakeProgress) UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) (models.Preferences, error) {
	if f.err != nil {
		return models.Preferences{}, f.err
	}
	return patch.Apply(f.data.Preferences), nil
}

func (f *fakeProgress) AnswerWord(ctx context.Context, word string, correct bool) (models.WordMemoryStatus, error) {
	f.lastWord = word
	return models.WordMemoryStatus{Status: models.WordStatusLearning, ConsecutiveCorrect: 1}, f.err
}

func (f *fakeProgress) ListBadges(ctx context.Context) []services.BadgeStatus { return f.badges }

func (f *fakeProgress) CurrentMission(ctx context.Context) *models.DailyMission { return f.mission }

func (f *fakeProgress) ActivityHistory(ctx context.Context, filter models.LogFilter) ([]models.ActivityLog, int, error) {
	f.lastFilter = filter
	return f.history, len(f.history), f.err
}

type fakeContent struct {
	quiz   *models.ReadingQuizContent
	eval   *models.OpenAnswerEvaluation
	saved  services.ReadingSessionResult
	result services.WritingFeedbackResult
	plan   *models.LearningPlan
	err    error
}

func (f *fakeContent) GenerateReadingQuiz(ctx context.Context, topic, level string) (*models.ReadingQuizContent, error) {
	return f.quiz, f.err
}

func (f *fakeContent) EvaluateOpenAnswer(ctx context.Context, passage, question, answer string) (*models.OpenAnswerEvaluation, error) {
	return f.eval, f.err
}

func (f *fakeContent) SaveReadingSession(ctx context.Context, session services.ReadingSession) (services.ReadingSessionResult, error) {
	return f.saved, f.err
}

func (f *fakeContent) WritingFeedback(ctx context.Context, topic, essay string) (services.WritingFeedbackResult, error) {
	return f.result, f.err
}

func (f *fakeContent) GenerateLearningPlan(ctx context.Context) (*models.LearningPlan, error) {
	return f.plan, f.err
}

func newTestServer(progress *fakeProgress, content *fakeContent) http.Handler {
	if progress == nil {
		progress = &fakeProgress{}
	}
	if content == nil {
		content = &fakeContent{}
	}
	s := &Server{Progress: progress, Content: content}
	return s.Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestGetProgress(t *testing.T) {
	progress := &fakeProgress{data: models.UserData{Level: 3, XP: 2450, LoginStreak: 7}}
	rec := doRequest(t, newTestServer(progress, nil), http.MethodGet, "/api/progress", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.UserData
	decodeBody(t, rec, &got)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 2450, got.XP)
}

func TestRecordActivityEndpoint(t *testing.T) {
	progress := &fakeProgress{result: models.ProgressResult{XPEarned: 150, NewLevel: 1, UnlockedBadges: []string{"First Steps"}}}
	h := newTestServer(progress, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/activities",
		`{"type":"vocabulary","xp":150,"details":{"score":10,"total":10}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result models.ProgressResult
	decodeBody(t, rec, &result)
	assert.Equal(t, 150, result.XPEarned)
	assert.Contains(t, result.UnlockedBadges, "First Steps")

	assert.Equal(t, models.ActivityVocabulary, progress.lastEvent.Type)
	details, ok := progress.lastEvent.Details.(models.VocabularyDetails)
	require.True(t, ok)
	assert.Equal(t, 10, details.Score)
}

func TestRecordActivityEndpoint_BadBody(t *testing.T) {
	rec := doRequest(t, newTestServer(nil, nil), http.MethodPost, "/api/activities", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, apperrors.ErrCodeBadRequest, body.Error.Code)
}

func TestRecordActivityEndpoint_ValidationError(t *testing.T) {
	progress := &fakeProgress{err: apperrors.NewValidationError("xp", "must not be negative")}
	rec := doRequest(t, newTestServer(progress, nil), http.MethodPost, "/api/activities",
		`{"type":"vocabulary","xp":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, apperrors.ErrCodeValidation, body.Error.Code)
}

func TestListActivitiesEndpoint(t *testing.T) {
	progress := &fakeProgress{history: []models.ActivityLog{
		{ID: "1", Type: models.ActivityReading, XP: 60},
	}}
	h := newTestServer(progress, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/activities?type=reading&limit=10&offset=5&order_dir=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, models.ActivityReading, progress.lastFilter.Type)
	assert.Equal(t, 10, progress.lastFilter.Limit)
	assert.Equal(t, 5, progress.lastFilter.Offset)
	assert.Equal(t, "ASC", progress.lastFilter.OrderDir)

	var body struct {
		Entries []json.RawMessage `json:"entries"`
		Total   int               `json:"total"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.Total)
	assert.Len(t, body.Entries, 1)
}

func TestListActivitiesEndpoint_InvalidLimit(t *testing.T) {
	rec := doRequest(t, newTestServer(nil, nil), http.MethodGet, "/api/activities?limit=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalEndpoints(t *testing.T) {
	progress := &fakeProgress{}
	h := newTestServer(progress, nil)

	rec := doRequest(t, h, http.MethodPut, "/api/goal", `{"type":"xp","target":500,"timeframe":"weekly"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500, progress.lastGoal.Target)

	rec = doRequest(t, h, http.MethodDelete, "/api/goal", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, progress.cleared)
}

func TestUpdatePreferencesEndpoint(t *testing.T) {
	progress := &fakeProgress{data: models.UserData{
		Preferences: models.Preferences{Level: "Intermediate", LearningGoal: "Travel"},
	}}
	rec := doRequest(t, newTestServer(progress, nil), http.MethodPatch, "/api/preferences", `{"level":"Advanced"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var prefs models.Preferences
	decodeBody(t, rec, &prefs)
	assert.Equal(t, "Advanced", prefs.Level)
	assert.Equal(t, "Travel", prefs.LearningGoal)
}

func TestAnswerWordEndpoint(t *testing.T) {
	progress := &fakeProgress{}
	rec := doRequest(t, newTestServer(progress, nil), http.MethodPost, "/api/words/answer",
		`{"word":"serendipity","correct":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "serendipity", progress.lastWord)

	var body struct {
		Word   string                  `json:"word"`
		Status models.WordMemoryStatus `json:"status"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "serendipity", body.Word)
	assert.Equal(t, models.WordStatusLearning, body.Status.Status)
}

func TestBadgesAndMissionEndpoints(t *testing.T) {
	progress := &fakeProgress{
		badges: []services.BadgeStatus{
			{Badge: models.Badge{ID: "first_steps", Name: "First Steps"}, Earned: true},
		},
		mission: &models.DailyMission{Type: models.MissionEarnXP, Target: 100, Progress: 30},
	}
	h := newTestServer(progress, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/badges", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var badges []services.BadgeStatus
	decodeBody(t, rec, &badges)
	require.Len(t, badges, 1)
	assert.True(t, badges[0].Earned)

	rec = doRequest(t, h, http.MethodGet, "/api/mission", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mission models.DailyMission
	decodeBody(t, rec, &mission)
	assert.Equal(t, models.MissionEarnXP, mission.Type)
	assert.Equal(t, 30, mission.Progress)
}

func TestReadingQuizEndpoint(t *testing.T) {
	content := &fakeContent{quiz: &models.ReadingQuizContent{
		Passage: "p",
		MCQs:    []models.ReadingMCQ{{Question: "q", Options: []string{"a", "b"}}},
	}}
	rec := doRequest(t, newTestServer(nil, content), http.MethodPost, "/api/reading/quiz",
		`{"topic":"coffee","level":"Intermediate (B1)"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var quiz models.ReadingQuizContent
	decodeBody(t, rec, &quiz)
	assert.Equal(t, "p", quiz.Passage)
}

func TestReadingQuizEndpoint_GenerationFailure(t *testing.T) {
	content := &fakeContent{err: apperrors.NewGenerationError(assert.AnError)}
	rec := doRequest(t, newTestServer(nil, content), http.MethodPost, "/api/reading/quiz",
		`{"topic":"coffee","level":"B1"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, apperrors.ErrCodeGeneration, body.Error.Code)
}

func TestEvaluateAnswerEndpoint(t *testing.T) {
	content := &fakeContent{eval: &models.OpenAnswerEvaluation{Verdict: "Correct", Explanation: "Good."}}
	rec := doRequest(t, newTestServer(nil, content), http.MethodPost, "/api/reading/evaluate",
		`{"passage":"p","question":"q","answer":"a"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var eval models.OpenAnswerEvaluation
	decodeBody(t, rec, &eval)
	assert.Equal(t, "Correct", eval.Verdict)
}

func TestSaveReadingSessionEndpoint(t *testing.T) {
	content := &fakeContent{saved: services.ReadingSessionResult{
		Item:     models.ReadingHistoryItem{ID: "abc", Topic: "Rivers"},
		Progress: models.ProgressResult{XPEarned: 60, NewLevel: 1},
	}}
	rec := doRequest(t, newTestServer(nil, content), http.MethodPost, "/api/reading/history",
		`{"topic":"Rivers","content":{"passage":"p","mcqs":[]},"userMcqAnswers":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result services.ReadingSessionResult
	decodeBody(t, rec, &result)
	assert.Equal(t, "abc", result.Item.ID)
	assert.Equal(t, 60, result.Progress.XPEarned)
}

func TestWritingFeedbackEndpoint(t *testing.T) {
	content := &fakeContent{result: services.WritingFeedbackResult{
		Feedback: "## Overall Impression\nSolid.",
		Progress: models.ProgressResult{XPEarned: 75, NewLevel: 1},
	}}
	rec := doRequest(t, newTestServer(nil, content), http.MethodPost, "/api/writing/feedback",
		`{"topic":"My city","essay":"I live near the sea."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.WritingFeedbackResult
	decodeBody(t, rec, &result)
	assert.Contains(t, result.Feedback, "Overall Impression")
	assert.Equal(t, 75, result.Progress.XPEarned)
}

func TestLearningPlanEndpoint(t *testing.T) {
	content := &fakeContent{plan: &models.LearningPlan{
		WeekFocus:   "Reading week.",
		Suggestions: []models.PlanSuggestion{{Type: "reading", Topic: "Travel", Reason: "Variety."}},
	}}
	rec := doRequest(t, newTestServer(nil, content), http.MethodPost, "/api/plan", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var plan models.LearningPlan
	decodeBody(t, rec, &plan)
	assert.Equal(t, "Reading week.", plan.WeekFocus)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(nil, nil)

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	// No DB wired in tests; readiness still reports ready.
	rec = doRequest(t, h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	rec := doRequest(t, newTestServer(nil, nil), http.MethodGet, "/api/progress", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

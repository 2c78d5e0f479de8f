package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/takeru/enghub/internal/errors"
	"github.com/takeru/enghub/internal/models"
)

// candidateResponse wraps text the way the generateContent endpoint does.
func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"}).
		WithHTTPClient(srv.Client())
}

func respondText(t *testing.T, text string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "test-model")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(candidateResponse(text)))
	}
}

const quizJSON = `{
  "passage": "Coffee arrived in Europe in the 17th century and quickly became popular.",
  "mcqs": [
    {"question": "When did coffee arrive in Europe?", "options": ["15th century", "17th century", "19th century", "20th century"], "correctAnswerIndex": 1}
  ],
  "openQuestions": [
    {"question": "Why do you think coffee became popular?"}
  ]
}`

func TestGenerateReadingQuiz(t *testing.T) {
	client := newTestClient(t, respondText(t, quizJSON))

	quiz, err := client.GenerateReadingQuiz(context.Background(), "coffee", "Intermediate (B1)")
	require.NoError(t, err)
	assert.Contains(t, quiz.Passage, "Coffee")
	require.Len(t, quiz.MCQs, 1)
	assert.Equal(t, 1, quiz.MCQs[0].CorrectAnswerIndex)
	require.Len(t, quiz.OpenQuestions, 1)
}

func TestGenerateReadingQuiz_FencedPayload(t *testing.T) {
	client := newTestClient(t, respondText(t, "```json\n"+quizJSON+"\n```"))

	quiz, err := client.GenerateReadingQuiz(context.Background(), "coffee", "Intermediate (B1)")
	require.NoError(t, err)
	assert.Len(t, quiz.MCQs, 1)
}

func TestGenerateReadingQuiz_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "Sure! Here is your quiz."},
		{"missing passage", `{"mcqs": [{"question": "q", "options": ["a","b"], "correctAnswerIndex": 0}]}`},
		{"no mcqs", `{"passage": "p", "mcqs": []}`},
		{"answer index out of range", `{"passage": "p", "mcqs": [{"question": "q", "options": ["a","b"], "correctAnswerIndex": 5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respondText(t, tt.text))

			_, err := client.GenerateReadingQuiz(context.Background(), "coffee", "B1")
			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok, "generation failures surface as AppError")
			assert.Equal(t, apperrors.ErrCodeGeneration, appErr.Code)
		})
	}
}

func TestGenerateReadingQuiz_ProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	})

	_, err := client.GenerateReadingQuiz(context.Background(), "coffee", "B1")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeGeneration, appErr.Code)
}

func TestEvaluateOpenAnswer(t *testing.T) {
	client := newTestClient(t, respondText(t, `{"verdict": "Partially Correct", "explanation": "You named the century but not the continent."}`))

	eval, err := client.EvaluateOpenAnswer(context.Background(), "passage", "question", "answer")
	require.NoError(t, err)
	assert.Equal(t, "Partially Correct", eval.Verdict)
	assert.NotEmpty(t, eval.Explanation)
}

func TestEvaluateOpenAnswer_UnknownVerdict(t *testing.T) {
	client := newTestClient(t, respondText(t, `{"verdict": "Meh", "explanation": "x"}`))

	_, err := client.EvaluateOpenAnswer(context.Background(), "p", "q", "a")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeGeneration, appErr.Code)
}

func TestWritingFeedback(t *testing.T) {
	client := newTestClient(t, respondText(t, "## Overall Impression\nNice work."))

	feedback, err := client.WritingFeedback(context.Background(), "My weekend", "I go to park.")
	require.NoError(t, err)
	assert.Contains(t, feedback, "Overall Impression")
}

func TestGenerateLearningPlan(t *testing.T) {
	planJSON := `{
  "week_focus": "Strengthen reading comprehension.",
  "suggestions": [
    {"type": "reading", "topic": "Travel", "level": "Intermediate (B1)", "reason": "You have not practiced reading this week."},
    {"type": "vocabulary", "category": "Business", "reason": "Builds on your recent vocabulary streak."}
  ]
}`
	client := newTestClient(t, respondText(t, planJSON))

	prefs := models.Preferences{Level: "Intermediate", LearningGoal: "Travel"}
	plan, err := client.GenerateLearningPlan(context.Background(), prefs, nil)
	require.NoError(t, err)
	assert.Equal(t, "Strengthen reading comprehension.", plan.WeekFocus)
	require.Len(t, plan.Suggestions, 2)
	assert.Equal(t, "reading", plan.Suggestions[0].Type)
}

func TestGenerateLearningPlan_UnknownSuggestionType(t *testing.T) {
	client := newTestClient(t, respondText(t, `{"week_focus": "f", "suggestions": [{"type": "juggling", "reason": "r"}]}`))

	_, err := client.GenerateLearningPlan(context.Background(), models.Preferences{}, nil)
	require.Error(t, err)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFences(tt.in))
	}
}

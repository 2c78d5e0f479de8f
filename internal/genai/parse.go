package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/takeru/enghub/internal/models"
)

// stripFences removes a markdown code fence around a JSON payload. Models
// sometimes wrap JSON in ```json blocks even when asked not to.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func parseReadingQuiz(text string) (*models.ReadingQuizContent, error) {
	var quiz models.ReadingQuizContent
	if err := json.Unmarshal([]byte(stripFences(text)), &quiz); err != nil {
		return nil, fmt.Errorf("unparseable quiz payload: %w", err)
	}

	if quiz.Passage == "" {
		return nil, fmt.Errorf("quiz payload missing passage")
	}
	if len(quiz.MCQs) == 0 {
		return nil, fmt.Errorf("quiz payload has no multiple-choice questions")
	}
	for i, q := range quiz.MCQs {
		if q.Question == "" || len(q.Options) < 2 {
			return nil, fmt.Errorf("quiz mcq %d is malformed", i)
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return nil, fmt.Errorf("quiz mcq %d answer index out of range", i)
		}
	}
	for i, q := range quiz.OpenQuestions {
		if q.Question == "" {
			return nil, fmt.Errorf("quiz open question %d is empty", i)
		}
	}
	if quiz.OpenQuestions == nil {
		quiz.OpenQuestions = []models.ReadingOpenQuestion{}
	}
	return &quiz, nil
}

var validVerdicts = map[string]bool{
	"Correct":           true,
	"Partially Correct": true,
	"Incorrect":         true,
}

func parseEvaluation(text string) (*models.OpenAnswerEvaluation, error) {
	var eval models.OpenAnswerEvaluation
	if err := json.Unmarshal([]byte(stripFences(text)), &eval); err != nil {
		return nil, fmt.Errorf("unparseable evaluation payload: %w", err)
	}
	if !validVerdicts[eval.Verdict] {
		return nil, fmt.Errorf("unexpected verdict %q", eval.Verdict)
	}
	if eval.Explanation == "" {
		return nil, fmt.Errorf("evaluation payload missing explanation")
	}
	return &eval, nil
}

func parseLearningPlan(text string) (*models.LearningPlan, error) {
	var plan models.LearningPlan
	if err := json.Unmarshal([]byte(stripFences(text)), &plan); err != nil {
		return nil, fmt.Errorf("unparseable plan payload: %w", err)
	}
	if plan.WeekFocus == "" {
		return nil, fmt.Errorf("plan payload missing week focus")
	}
	if len(plan.Suggestions) == 0 {
		return nil, fmt.Errorf("plan payload has no suggestions")
	}
	for i, s := range plan.Suggestions {
		switch s.Type {
		case "vocabulary", "reading", "writing":
		default:
			return nil, fmt.Errorf("plan suggestion %d has unknown type %q", i, s.Type)
		}
	}
	return &plan, nil
}

package genai

import (
	"fmt"
	"strings"

	"github.com/takeru/enghub/internal/models"
)

func readingQuizPrompt(topic, level string) string {
	return fmt.Sprintf(`You are an English teacher creating a reading comprehension exercise.

Write a short reading passage (120-180 words) about "%s" suitable for a learner at %s level.
Then write exactly 3 multiple-choice questions about the passage, each with 4 options, and exactly 2 open-ended questions that require a written answer.

Respond with JSON only, in this exact shape:
{
  "passage": "...",
  "mcqs": [
    {"question": "...", "options": ["...", "...", "...", "..."], "correctAnswerIndex": 0}
  ],
  "openQuestions": [
    {"question": "..."}
  ]
}`, topic, level)
}

func evaluationPrompt(passage, question, answer string) string {
	return fmt.Sprintf(`You are an English teacher grading a student's answer to a reading comprehension question.

Passage:
%s

Question: %s

Student's answer: %s

Judge the answer against the passage only. Respond with JSON only, in this exact shape:
{"verdict": "Correct" | "Partially Correct" | "Incorrect", "explanation": "one or two sentences, encouraging tone"}`, passage, question, answer)
}

func writingFeedbackPrompt(topic, essay string) string {
	return fmt.Sprintf(`You are an encouraging English writing tutor. A student wrote the following text on the topic "%s":

%s

Give feedback in markdown with these sections:
## Overall Impression
## Grammar & Vocabulary
## Structure & Flow
## Suggestions

Be specific, quote short fragments of the student's text when pointing things out, and keep an encouraging tone.`, topic, essay)
}

func learningPlanPrompt(prefs models.Preferences, recent []models.ActivityLog) string {
	var history strings.Builder
	if len(recent) == 0 {
		history.WriteString("(no recent activity)")
	}
	for _, log := range recent {
		fmt.Fprintf(&history, "- %s on %s (+%d xp)\n", log.Type, log.Date.Format("2006-01-02"), log.XP)
	}

	return fmt.Sprintf(`You are an English learning coach. Build a focused one-week study plan.

Learner level: %s
Learning goal: %s
Recent activity:
%s

Suggest 3-5 concrete exercises mixing vocabulary, reading and writing, weighted toward what the learner has practiced least.

Respond with JSON only, in this exact shape:
{
  "week_focus": "one sentence describing the theme of the week",
  "suggestions": [
    {"type": "vocabulary", "category": "...", "reason": "..."},
    {"type": "reading", "topic": "...", "level": "...", "reason": "..."},
    {"type": "writing", "topic": "...", "reason": "..."}
  ]
}`, prefs.Level, prefs.LearningGoal, history.String())
}

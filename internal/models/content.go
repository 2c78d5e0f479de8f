package models

import "time"

// Types for generative quiz content and its stored history. The engine
// consumes these as opaque snapshots; only the reading-history shape matters
// for persistence and migration.

type VocabQuestion struct {
	Word          string   `json:"word"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type ReadingMCQ struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

type ReadingOpenQuestion struct {
	Question string `json:"question"`
}

type ReadingQuizContent struct {
	Passage       string                `json:"passage"`
	MCQs          []ReadingMCQ          `json:"mcqs"`
	OpenQuestions []ReadingOpenQuestion `json:"openQuestions"`
}

type OpenAnswerEvaluation struct {
	Verdict     string `json:"verdict"` // Correct, Incorrect, Partially Correct
	Explanation string `json:"explanation"`
}

type ReadingHistoryItem struct {
	ID              string                  `json:"id"`
	Date            time.Time               `json:"date"`
	Topic           string                  `json:"topic"`
	Level           string                  `json:"level"`
	Content         ReadingQuizContent      `json:"content"`
	UserMCQAnswers  []*int                  `json:"userMcqAnswers"`
	UserOpenAnswers []string                `json:"userOpenAnswers"`
	Evaluations     []*OpenAnswerEvaluation `json:"evaluations"`
}

type PlanSuggestion struct {
	Type     string `json:"type"` // vocabulary, reading or writing
	Category string `json:"category,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Level    string `json:"level,omitempty"`
	Reason   string `json:"reason"`
}

type LearningPlan struct {
	WeekFocus   string           `json:"week_focus"`
	Suggestions []PlanSuggestion `json:"suggestions"`
}

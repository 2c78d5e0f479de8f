package models

import (
	"encoding/json"
	"time"
)

type ActivityType string

const (
	ActivityVocabulary ActivityType = "vocabulary"
	ActivityReading    ActivityType = "reading"
	ActivityWriting    ActivityType = "writing"
)

// ValidActivityType reports whether t is one of the three known types.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityVocabulary, ActivityReading, ActivityWriting:
		return true
	}
	return false
}

// ActivityDetails is the tagged union of per-type log payloads. The variant
// must agree with the log's Type; marshalling is keyed by it.
type ActivityDetails interface {
	activityType() ActivityType
}

type VocabularyDetails struct {
	Category string `json:"category,omitempty"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
}

func (VocabularyDetails) activityType() ActivityType { return ActivityVocabulary }

type ReadingDetails struct {
	Topic       string `json:"topic,omitempty"`
	Level       string `json:"level,omitempty"`
	MCQScore    int    `json:"mcqScore"`
	MCQTotal    int    `json:"mcqTotal"`
	OpenCorrect int    `json:"openCorrect"`
	OpenTotal   int    `json:"openTotal"`
}

func (ReadingDetails) activityType() ActivityType { return ActivityReading }

type WritingDetails struct {
	Topic     string `json:"topic,omitempty"`
	WordCount int    `json:"wordCount"`
}

func (WritingDetails) activityType() ActivityType { return ActivityWriting }

// ActivityLog is one immutable entry in the append-only history.
type ActivityLog struct {
	ID      string
	Type    ActivityType
	Date    time.Time
	XP      int
	Details ActivityDetails
}

type activityLogJSON struct {
	ID      string          `json:"id"`
	Type    ActivityType    `json:"type"`
	Date    time.Time       `json:"date"`
	XP      int             `json:"xp"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (l ActivityLog) MarshalJSON() ([]byte, error) {
	out := activityLogJSON{ID: l.ID, Type: l.Type, Date: l.Date, XP: l.XP}
	if l.Details != nil {
		raw, err := json.Marshal(l.Details)
		if err != nil {
			return nil, err
		}
		out.Details = raw
	}
	return json.Marshal(out)
}

func (l *ActivityLog) UnmarshalJSON(data []byte) error {
	var raw activityLogJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ID = raw.ID
	l.Type = raw.Type
	l.Date = raw.Date
	l.XP = raw.XP
	l.Details = nil
	if len(raw.Details) == 0 || string(raw.Details) == "null" {
		return nil
	}
	// Unknown types keep nil details rather than failing the whole load.
	switch raw.Type {
	case ActivityVocabulary:
		var d VocabularyDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		l.Details = d
	case ActivityReading:
		var d ReadingDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		l.Details = d
	case ActivityWriting:
		var d WritingDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		l.Details = d
	}
	return nil
}

// ActivityEvent is the sole input contract of the progression engine: a
// completed activity as reported by the caller, not yet stamped with an id or
// date.
type ActivityEvent struct {
	Type    ActivityType    `json:"type"`
	XP      int             `json:"xp"`
	Details ActivityDetails `json:"details,omitempty"`
}

func (e *ActivityEvent) UnmarshalJSON(data []byte) error {
	var l ActivityLog
	if err := l.UnmarshalJSON(data); err != nil {
		return err
	}
	e.Type = l.Type
	e.XP = l.XP
	e.Details = l.Details
	return nil
}

func (e ActivityEvent) MarshalJSON() ([]byte, error) {
	return ActivityLog{Type: e.Type, XP: e.XP, Details: e.Details}.MarshalJSON()
}

// ProgressResult summarizes one recorded activity for UI feedback.
type ProgressResult struct {
	XPEarned       int      `json:"xpEarned"` // activity XP plus any mission bonus
	UnlockedBadges []string `json:"unlockedBadges"`
	LeveledUp      bool     `json:"leveledUp"`
	NewLevel       int      `json:"newLevel"`
}

// LogFilter narrows activity-history queries.
type LogFilter struct {
	Type     ActivityType
	Limit    int
	Offset   int
	OrderDir string // ASC or DESC, defaults DESC
}

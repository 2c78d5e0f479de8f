package models

import "time"

// XP thresholds and mission state live in internal/gamification; models only
// describe the persisted shape.

type Preferences struct {
	Level        string `json:"level"`
	LearningGoal string `json:"learningGoal"`
}

type UserGoal struct {
	Type      string    `json:"type"`      // only "xp" today
	Target    int       `json:"target"`    // weekly XP target
	Timeframe string    `json:"timeframe"` // only "weekly" today
	StartDate time.Time `json:"startDate"`
}

type WordMemoryStatus struct {
	Status             string `json:"status"` // "learning" or "mastered"
	ConsecutiveCorrect int    `json:"consecutiveCorrect"`
}

const (
	WordStatusLearning = "learning"
	WordStatusMastered = "mastered"
)

type MissionType string

const (
	MissionVocabCorrect    MissionType = "vocab_correct"
	MissionEarnXP          MissionType = "earn_xp"
	MissionCompleteReading MissionType = "complete_reading"
)

type DailyMission struct {
	Type        MissionType `json:"type"`
	Target      int         `json:"target"`
	Progress    int         `json:"progress"`
	Completed   bool        `json:"completed"`
	Description string      `json:"description"`
}

// UserData is the sole persisted aggregate. It is mutated exclusively through
// the progress store pipeline and written back to the blob store after every
// change.
type UserData struct {
	Level           int                         `json:"level"`
	XP              int                         `json:"xp"`
	LastLogin       time.Time                   `json:"lastLogin"`
	LoginStreak     int                         `json:"loginStreak"`
	Goal            *UserGoal                   `json:"goal"`
	Badges          []string                    `json:"badges"`
	Logs            []ActivityLog               `json:"logs"`
	Preferences     Preferences                 `json:"preferences"`
	WordMemory      map[string]WordMemoryStatus `json:"wordMemory"`
	ReadingHistory  []ReadingHistoryItem        `json:"readingHistory"`
	DailyMission    *DailyMission               `json:"dailyMission"`
	LastMissionDate time.Time                   `json:"lastMissionDate"`
}

// HasBadge reports whether the badge id is already unlocked.
func (u UserData) HasBadge(id string) bool {
	for _, b := range u.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// MasteredWordCount counts words currently classified as mastered.
func (u UserData) MasteredWordCount() int {
	n := 0
	for _, w := range u.WordMemory {
		if w.Status == WordStatusMastered {
			n++
		}
	}
	return n
}

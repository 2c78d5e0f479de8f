package gamification

import (
	"math/rand"

	"github.com/takeru/enghub/internal/models"
)

type missionTemplate struct {
	Type        models.MissionType
	Target      int
	Description string
}

// The fixed daily mission template set. One is picked uniformly at random
// each day.
var missionTemplates = []missionTemplate{
	{Type: models.MissionVocabCorrect, Target: 10, Description: "Answer 10 vocabulary questions correctly today."},
	{Type: models.MissionEarnXP, Target: 100, Description: "Earn 100 XP today."},
	{Type: models.MissionCompleteReading, Target: 1, Description: "Complete a reading comprehension quiz today."},
}

// NewDailyMission selects a fresh mission from the template set. A new
// mission always starts pending with zero progress.
func NewDailyMission(rng *rand.Rand) *models.DailyMission {
	tpl := missionTemplates[rng.Intn(len(missionTemplates))]
	return &models.DailyMission{
		Type:        tpl.Type,
		Target:      tpl.Target,
		Progress:    0,
		Completed:   false,
		Description: tpl.Description,
	}
}

// AccrueMission advances mission progress for one recorded activity and
// returns the updated mission plus the completion bonus, awarded exactly once
// when progress first reaches the target. A completed mission is frozen: no
// further increments, no second bonus. Nil missions (legacy data mid-load)
// pass through untouched.
func AccrueMission(mission *models.DailyMission, log models.ActivityLog) (*models.DailyMission, int) {
	if mission == nil || mission.Completed {
		return mission, 0
	}

	inc := missionIncrement(mission.Type, log)
	if inc <= 0 {
		return mission, 0
	}

	updated := *mission
	updated.Progress += inc
	if updated.Progress >= updated.Target {
		updated.Completed = true
		return &updated, XPMissionComplete
	}
	return &updated, 0
}

func missionIncrement(t models.MissionType, log models.ActivityLog) int {
	switch t {
	case models.MissionEarnXP:
		// Base activity XP, before any bonus.
		return log.XP
	case models.MissionVocabCorrect:
		if d, ok := log.Details.(models.VocabularyDetails); ok && log.Type == models.ActivityVocabulary {
			return d.Score
		}
	case models.MissionCompleteReading:
		if log.Type == models.ActivityReading {
			return 1
		}
	}
	return 0
}

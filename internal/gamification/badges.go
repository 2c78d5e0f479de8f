package gamification

import "github.com/takeru/enghub/internal/models"

// EvaluateBadges scans the catalog against the post-mutation aggregate and
// returns entries that newly qualify, in catalog order. Already-owned badges
// are skipped, which makes every badge a one-way ratchet regardless of how the
// underlying statistic moves later.
func EvaluateBadges(data models.UserData) []models.Badge {
	var unlocked []models.Badge
	for _, badge := range BadgeCatalog {
		if data.HasBadge(badge.ID) {
			continue
		}
		if badgeSatisfied(badge.ID, data) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}

func badgeSatisfied(id string, data models.UserData) bool {
	switch id {
	case BadgeFirstSteps:
		return len(data.Logs) > 0
	case BadgeVocabWiz1:
		return vocabCorrectTotal(data.Logs) >= 10
	case BadgeVocabWiz2:
		return vocabCorrectTotal(data.Logs) >= 50
	case BadgeWordSmith1:
		return countByType(data.Logs, models.ActivityWriting) >= 1
	case BadgeWordSmith2:
		return countByType(data.Logs, models.ActivityWriting) >= 5
	case BadgeBookworm1:
		return countByType(data.Logs, models.ActivityReading) >= 3
	case BadgeBookworm2:
		return countByType(data.Logs, models.ActivityReading) >= 10
	case BadgeSharpShooter:
		return hasPerfectRound(data.Logs)
	case BadgePolymath:
		return countByType(data.Logs, models.ActivityVocabulary) > 0 &&
			countByType(data.Logs, models.ActivityReading) > 0 &&
			countByType(data.Logs, models.ActivityWriting) > 0
	case BadgeDedicatedLearner:
		return data.LoginStreak >= 3
	case BadgeCommittedLearner:
		return data.LoginStreak >= 7
	case BadgeUnstoppable:
		return data.Level >= 5
	}
	return false
}

func countByType(logs []models.ActivityLog, t models.ActivityType) int {
	n := 0
	for _, l := range logs {
		if l.Type == t {
			n++
		}
	}
	return n
}

func vocabCorrectTotal(logs []models.ActivityLog) int {
	sum := 0
	for _, l := range logs {
		if l.Type != models.ActivityVocabulary {
			continue
		}
		if d, ok := l.Details.(models.VocabularyDetails); ok {
			sum += d.Score
		}
	}
	return sum
}

// hasPerfectRound looks for a vocabulary round answered flawlessly. Reading
// sub-scores are split across MCQ and open answers and are not consulted.
func hasPerfectRound(logs []models.ActivityLog) bool {
	for _, l := range logs {
		if d, ok := l.Details.(models.VocabularyDetails); ok {
			if d.Total > 0 && d.Score == d.Total {
				return true
			}
		}
	}
	return false
}

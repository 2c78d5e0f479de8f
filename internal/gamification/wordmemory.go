package gamification

import "github.com/takeru/enghub/internal/models"

// masteryThreshold is the consecutive-correct count that flips a word to
// mastered.
const masteryThreshold = 3

// ApplyAnswer folds one quiz answer into a word's memory status. A correct
// answer increments the consecutive counter and promotes at the threshold; any
// miss resets the word to learning with a zero counter.
func ApplyAnswer(current models.WordMemoryStatus, correct bool) models.WordMemoryStatus {
	if !correct {
		return models.WordMemoryStatus{Status: models.WordStatusLearning, ConsecutiveCorrect: 0}
	}

	current.ConsecutiveCorrect++
	if current.ConsecutiveCorrect >= masteryThreshold {
		current.Status = models.WordStatusMastered
	} else if current.Status == "" {
		current.Status = models.WordStatusLearning
	}
	return current
}

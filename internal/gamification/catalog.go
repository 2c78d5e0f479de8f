package gamification

import "github.com/takeru/enghub/internal/models"

// Badge ids referenced by the rule evaluator.
const (
	BadgeFirstSteps       = "first_steps"
	BadgeVocabWiz1        = "vocab_wiz_1"
	BadgeVocabWiz2        = "vocab_wiz_2"
	BadgeWordSmith1       = "word_smith_1"
	BadgeWordSmith2       = "word_smith_2"
	BadgeBookworm1        = "bookworm_1"
	BadgeBookworm2        = "bookworm_2"
	BadgeDedicatedLearner = "dedicated_learner"
	BadgeCommittedLearner = "committed_learner"
	BadgeSharpShooter     = "sharp_shooter"
	BadgePolymath         = "polymath"
	BadgeUnstoppable      = "unstoppable"
)

// BadgeCatalog is the fixed achievement table. Evaluation order follows
// catalog order.
var BadgeCatalog = []models.Badge{
	{ID: BadgeFirstSteps, Name: "First Steps", Description: "Complete your first activity.", Icon: "👟"},
	{ID: BadgeVocabWiz1, Name: "Vocab Wizard I", Description: "Answer 10 vocabulary questions correctly.", Icon: "🧙"},
	{ID: BadgeVocabWiz2, Name: "Vocab Wizard II", Description: "Answer 50 vocabulary questions correctly.", Icon: "🧙‍♂️"},
	{ID: BadgeWordSmith1, Name: "Word Smith I", Description: "Get feedback on your first essay.", Icon: "✍️"},
	{ID: BadgeWordSmith2, Name: "Word Smith II", Description: "Get feedback on 5 essays.", Icon: "✍️"},
	{ID: BadgeBookworm1, Name: "Bookworm I", Description: "Complete 3 reading comprehension quizzes.", Icon: "🐛"},
	{ID: BadgeBookworm2, Name: "Bookworm II", Description: "Complete 10 reading comprehension quizzes.", Icon: "🦋"},
	{ID: BadgeDedicatedLearner, Name: "Dedicated Learner", Description: "Log in 3 days in a row.", Icon: "🗓️"},
	{ID: BadgeCommittedLearner, Name: "Committed Learner", Description: "Reach a 7-day login streak.", Icon: "🔥"},
	{ID: BadgeSharpShooter, Name: "Sharp Shooter", Description: "Score 100% on any quiz.", Icon: "🎯"},
	{ID: BadgePolymath, Name: "Polymath", Description: "Complete activities in all three categories.", Icon: "🎓"},
	{ID: BadgeUnstoppable, Name: "Unstoppable", Description: "Reach level 5.", Icon: "🚀"},
}

// BadgeByID looks up a catalog entry. Returns nil for unknown ids.
func BadgeByID(id string) *models.Badge {
	for i := range BadgeCatalog {
		if BadgeCatalog[i].ID == id {
			return &BadgeCatalog[i]
		}
	}
	return nil
}

// Package gamification holds the pure transition functions of the progression
// engine: XP/level math, the activity reducer, mission lifecycle, badge rules,
// streak calendar logic and word-memory tracking. Nothing here performs I/O.
package gamification

// XPPerLevel is the flat XP cost of each level. Level is always derived from
// total XP, never stored independently.
const XPPerLevel = 1000

// XP awards per answer or submission.
const (
	XPVocabCorrect       = 15
	XPReadingMCQCorrect  = 20
	XPReadingOpenCorrect = 40
	XPWritingSubmit      = 75
	XPMissionComplete    = 50
)

// LevelForXP derives the level for a total XP amount.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

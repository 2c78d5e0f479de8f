package models

// PreferencesPatch is a partial preferences update; nil fields are left
// unchanged.
type PreferencesPatch struct {
	Level        *string `json:"level,omitempty"`
	LearningGoal *string `json:"learningGoal,omitempty"`
}

// Apply merges the patch into p.
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	if patch.Level != nil {
		p.Level = *patch.Level
	}
	if patch.LearningGoal != nil {
		p.LearningGoal = *patch.LearningGoal
	}
	return p
}

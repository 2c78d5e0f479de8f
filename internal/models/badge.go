package models

// Badge is a static catalog entry, never mutated at runtime. Unlocked badges
// are stored on UserData by id.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

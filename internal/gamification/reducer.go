package gamification

import "github.com/takeru/enghub/internal/models"

// ApplyActivity folds one stamped activity log into the aggregate: XP added,
// level recomputed, log appended. No other field changes; details are stored,
// not inspected.
func ApplyActivity(data models.UserData, log models.ActivityLog) models.UserData {
	data.XP += log.XP
	data.Level = LevelForXP(data.XP)

	logs := make([]models.ActivityLog, len(data.Logs), len(data.Logs)+1)
	copy(logs, data.Logs)
	data.Logs = append(logs, log)
	return data
}

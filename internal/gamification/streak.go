package gamification

import (
	"time"

	"github.com/takeru/enghub/internal/models"
)

// SameCalendarDay compares year, month and day in local time.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday reports whether previous falls on the calendar day before now.
func IsYesterday(now, previous time.Time) bool {
	return SameCalendarDay(now.AddDate(0, 0, -1), previous)
}

// ApplyLogin updates the login streak for a session starting at now. Runs at
// load time only: same-day loads change nothing, a yesterday login extends the
// streak, anything older resets it to 1. LastLogin is stamped whenever the day
// has changed.
func ApplyLogin(data models.UserData, now time.Time) models.UserData {
	if SameCalendarDay(data.LastLogin, now) {
		return data
	}
	if IsYesterday(now, data.LastLogin) {
		data.LoginStreak++
	} else {
		data.LoginStreak = 1
	}
	data.LastLogin = now
	return data
}

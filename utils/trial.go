package utils

import "time"

// TrialDaysRemaining returns how many whole days of the free trial are left,
// counted from start. Never negative.
func TrialDaysRemaining(offered int, start, now time.Time) int {
	if start.IsZero() {
		return offered
	}
	remaining := time.Duration(offered)*24*time.Hour - now.Sub(start)
	if remaining < 0 {
		return 0
	}
	return int(remaining / (24 * time.Hour))
}

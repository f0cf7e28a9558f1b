package util

import "time"

// NowUTC returns the current time in UTC. Timestamps on repair items and
// stored results always use UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

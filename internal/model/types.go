// Package model defines shared data structures.
package model

import "time"

// Config defines counter settings.
type Config struct {
	Period  time.Duration
	Frame   time.Duration
	LogPath string
	ClampY  bool
	Record  bool
}

// SessionsConfig defines filters for listing past runs.
type SessionsConfig struct {
	Since *time.Time
	Last  int
}

// Session captures a finished counting run.
type Session struct {
	ID        int64
	StartedAt time.Time
	EndedAt   time.Time
	Period    time.Duration
	// Deltas includes the leading zero entry.
	Deltas []int
	Total  int
	// Final is the counter value at shutdown, which may include a partial
	// period not reflected in Deltas.
	Final int
}

// Samples returns the number of completed periods.
func (s Session) Samples() int {
	if len(s.Deltas) == 0 {
		return 0
	}
	return len(s.Deltas) - 1
}

// Duration returns the wall-clock length of the run.
func (s Session) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// models/session.go
package models

import "time"

const (
	// Sessions older than this are removed by the sweeper no matter what.
	SessionMaxAge = 30 * time.Minute

	// How often the sweeper runs.
	SweepInterval = 10 * time.Minute
)

// Session is the server-side record of one in-progress timed attempt. It is
// owned exclusively by the session registry; handlers only ever see snapshot
// copies returned from registry calls.
type Session struct {
	Token           string     `json:"token"`
	StartTime       time.Time  `json:"start_time"`
	Signature       string     `json:"signature"`
	Interactions    int        `json:"interactions"`
	LastInteraction *time.Time `json:"last_interaction,omitempty"`
	Submitted       bool       `json:"submitted"`
}

// Age reports how long the session has been alive at the given instant.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

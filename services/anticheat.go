// services/anticheat.go
package services

import (
	"time"

	"leaderboard-service/models"
)

const (
	// Grace added on top of the measured session duration, covering
	// network round-trip between game end and submission.
	timingSlackMs = 2000

	// Minimum reported interactions for a session to count as real play.
	minInteractions = 3
)

// EvaluateSubmission decides whether a score submission earns the verified
// flag. session is the snapshot returned by a successful Consume, or nil
// when no usable session backed the submission (anonymous, unknown token,
// expired, or already used — all unverified).
//
// It never rejects: an implausible claim is stored unverified, not dropped.
func EvaluateSubmission(claimedTimeMs int64, session *models.Session) bool {
	if session == nil {
		return false
	}

	sessionDurationMs := time.Since(session.StartTime).Milliseconds()
	if claimedTimeMs > sessionDurationMs+timingSlackMs {
		// Claims to have finished faster than the session even existed.
		return false
	}
	if session.Interactions < minInteractions {
		return false
	}
	return true
}

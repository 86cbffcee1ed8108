package services

import (
	"testing"
	"time"

	"leaderboard-service/models"

	"github.com/stretchr/testify/assert"
)

func sessionStartedAgo(d time.Duration, interactions int) *models.Session {
	return &models.Session{
		Token:        "test-token",
		StartTime:    time.Now().Add(-d),
		Interactions: interactions,
	}
}

func TestEvaluateSubmission(t *testing.T) {
	tests := []struct {
		name     string
		claimed  int64
		session  *models.Session
		verified bool
	}{
		{
			name:     "no session",
			claimed:  9500,
			session:  nil,
			verified: false,
		},
		{
			name:     "plausible claim with enough interactions",
			claimed:  9500,
			session:  sessionStartedAgo(10*time.Second, 5),
			verified: true,
		},
		{
			name:     "claim exceeds session duration plus slack",
			claimed:  13000,
			session:  sessionStartedAgo(10*time.Second, 5),
			verified: false,
		},
		{
			name:     "claim within slack of session duration",
			claimed:  11500,
			session:  sessionStartedAgo(10*time.Second, 5),
			verified: true,
		},
		{
			name:     "too few interactions",
			claimed:  9500,
			session:  sessionStartedAgo(10*time.Second, 2),
			verified: false,
		},
		{
			name:     "interaction floor exactly met",
			claimed:  9500,
			session:  sessionStartedAgo(10*time.Second, 3),
			verified: true,
		},
		{
			name:     "instant score on a fresh session",
			claimed:  300000,
			session:  sessionStartedAgo(0, 10),
			verified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.verified, EvaluateSubmission(tt.claimed, tt.session))
		})
	}
}

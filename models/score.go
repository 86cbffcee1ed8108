// models/score.go
package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// Leaderboard capacity — slowest entries are evicted past this.
	MaxScores = 500

	// How many entries the public listing exposes.
	ListLimit = 50

	// Hard domain bounds for a claimed completion time.
	MinTimeMs = 3000
	MaxTimeMs = 600000

	MaxNameLen   = 50
	MaxCinemaLen = 100
	MaxEmailLen  = 100
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidTime   = errors.New("invalid time value")
)

// ScoreEntry is one persisted leaderboard record. Entries are immutable once
// stored; the only removal path is truncation eviction.
type ScoreEntry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Cinema   string    `json:"cinema"`
	Email    *string   `json:"email,omitempty"`
	TimeMs   int64     `json:"time"`
	Date     time.Time `json:"date"`
	Verified bool      `json:"verified"`
	Mobile   bool      `json:"mobile"`
}

// ScoreSubmission carries the already-decoded submit-score request body.
type ScoreSubmission struct {
	Name   string  `json:"name"`
	Cinema string  `json:"cinema"`
	Email  *string `json:"email"`
	TimeMs int64   `json:"time"`
	Token  string  `json:"token"`
	Sig    string  `json:"sig"`
	Mobile bool    `json:"mobile"`
}

// truncate caps s at max characters, never splitting a rune — a byte slice
// could leave an invalid UTF-8 tail in the persisted document.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Normalize trims and length-caps the user-supplied fields in place and
// validates the required ones. Runs before any storage access.
func (s *ScoreSubmission) Normalize() error {
	s.Name = truncate(strings.TrimSpace(s.Name), MaxNameLen)
	s.Cinema = truncate(strings.TrimSpace(s.Cinema), MaxCinemaLen)
	if s.Email != nil {
		e := truncate(strings.TrimSpace(*s.Email), MaxEmailLen)
		if e == "" {
			s.Email = nil
		} else {
			s.Email = &e
		}
	}

	if s.Name == "" || s.Cinema == "" || s.TimeMs == 0 {
		return ErrMissingFields
	}
	if s.TimeMs < MinTimeMs || s.TimeMs > MaxTimeMs {
		return ErrInvalidTime
	}
	return nil
}

// services/session_registry.go
package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"leaderboard-service/models"

	"github.com/go-co-op/gocron/v2"
)

// SessionRegistry owns the in-memory token→session map for in-progress game
// attempts. All read-modify-write paths hold the mutex, so two submissions
// racing on the same token cannot both consume it.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	sigs     *SignatureService
}

func NewSessionRegistry(sigs *SignatureService) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*models.Session),
		sigs:     sigs,
	}
}

// Start issues a fresh session. The token carries 256 bits of entropy; the
// caller is handed the token plus the truncated signature prefix.
func (r *SessionRegistry) Start() (token string, partialSig string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token = hex.EncodeToString(raw)
	now := time.Now()
	fullSig := r.sigs.Sign(token, now)

	r.mu.Lock()
	r.sessions[token] = &models.Session{
		Token:     token,
		StartTime: now,
		Signature: fullSig,
	}
	r.mu.Unlock()

	return token, Partial(fullSig), nil
}

// Interact bumps the interaction counter for a live session. Unknown token,
// missing token and already-submitted all report the same false — callers
// get no signal about which case they hit.
func (r *SessionRegistry) Interact(token string) bool {
	if token == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[token]
	if !ok || sess.Submitted {
		return false
	}
	now := time.Now()
	sess.Interactions++
	sess.LastInteraction = &now
	return true
}

// Consume atomically marks the session submitted and returns a snapshot of
// it. If two callers race, exactly one gets the snapshot; the loser sees
// ok=false exactly as if the token never existed. The stored signature is
// re-derived and checked before the session is handed out — an entry that
// no longer matches its own issuance signature is treated as not-found.
func (r *SessionRegistry) Consume(token string) (models.Session, bool) {
	if token == "" {
		return models.Session{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[token]
	if !ok || sess.Submitted {
		return models.Session{}, false
	}
	if !r.sigs.Verify(sess.Token, sess.StartTime, sess.Signature) {
		return models.Session{}, false
	}
	sess.Submitted = true
	return *sess, true
}

// Delete removes a session outright; called after a submission has consumed
// its token.
func (r *SessionRegistry) Delete(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Sweep drops every session older than the max lifetime, submitted or not,
// and returns how many were removed. Bounds memory growth from abandoned
// sessions.
func (r *SessionRegistry) Sweep() int {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, sess := range r.sessions {
		if sess.Age(now) > models.SessionMaxAge {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartSweeper schedules the periodic expiry sweep.
func (r *SessionRegistry) StartSweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(models.SweepInterval),
		gocron.NewTask(func() {
			if removed := r.Sweep(); removed > 0 {
				log.Printf("[Sweeper] Removed %d expired session(s), %d live", removed, r.Len())
			}
		}),
	)
}

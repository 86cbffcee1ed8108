package services

import (
	"sync"
	"testing"
	"time"

	"leaderboard-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *SessionRegistry {
	t.Helper()
	sigs, err := NewSignatureService()
	require.NoError(t, err)
	return NewSessionRegistry(sigs)
}

func TestSessionRegistry_Start(t *testing.T) {
	r := newTestRegistry(t)

	token, partialSig, err := r.Start()
	require.NoError(t, err)
	assert.Len(t, token, 64, "32 random bytes, hex encoded")
	assert.Len(t, partialSig, PartialSigLen)
	assert.Equal(t, 1, r.Len())

	token2, _, err := r.Start()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}

func TestSessionRegistry_Interact(t *testing.T) {
	r := newTestRegistry(t)
	token, _, err := r.Start()
	require.NoError(t, err)

	assert.True(t, r.Interact(token))
	assert.True(t, r.Interact(token))

	sess, ok := r.Consume(token)
	require.True(t, ok)
	assert.Equal(t, 2, sess.Interactions)
	require.NotNil(t, sess.LastInteraction)
}

func TestSessionRegistry_InteractIgnoredCases(t *testing.T) {
	r := newTestRegistry(t)
	token, _, err := r.Start()
	require.NoError(t, err)

	// Missing, unknown and spent tokens all look the same from outside.
	assert.False(t, r.Interact(""))
	assert.False(t, r.Interact("no-such-token"))

	_, ok := r.Consume(token)
	require.True(t, ok)
	assert.False(t, r.Interact(token))
}

func TestSessionRegistry_ConsumeChecksSignature(t *testing.T) {
	r := newTestRegistry(t)
	token, _, err := r.Start()
	require.NoError(t, err)

	// An entry whose signature no longer matches its token and start time
	// is unusable, same as an unknown token.
	r.mu.Lock()
	r.sessions[token].Signature = "tampered"
	r.mu.Unlock()

	_, ok := r.Consume(token)
	assert.False(t, ok)
}

func TestSessionRegistry_ConsumeOneShot(t *testing.T) {
	r := newTestRegistry(t)
	token, _, err := r.Start()
	require.NoError(t, err)

	_, ok := r.Consume(token)
	assert.True(t, ok)
	_, ok = r.Consume(token)
	assert.False(t, ok, "second consume must observe not-found")
}

func TestSessionRegistry_ConsumeConcurrent(t *testing.T) {
	r := newTestRegistry(t)
	token, _, err := r.Start()
	require.NoError(t, err)

	const callers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Consume(token); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	assert.Equal(t, 1, won, "exactly one concurrent consume may succeed")
}

func TestSessionRegistry_Delete(t *testing.T) {
	r := newTestRegistry(t)
	token, _, err := r.Start()
	require.NoError(t, err)

	r.Delete(token)
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Interact(token))
}

func TestSessionRegistry_SweepExpiry(t *testing.T) {
	r := newTestRegistry(t)
	expired, _, err := r.Start()
	require.NoError(t, err)
	fresh, _, err := r.Start()
	require.NoError(t, err)

	// Backdate one session past the max lifetime; even unsubmitted
	// sessions must be swept.
	r.mu.Lock()
	r.sessions[expired].StartTime = time.Now().Add(-models.SessionMaxAge - time.Minute)
	r.mu.Unlock()

	removed := r.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())

	_, ok := r.Consume(expired)
	assert.False(t, ok)
	_, ok = r.Consume(fresh)
	assert.True(t, ok)
}

// services/score_store.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"leaderboard-service/models"
	"leaderboard-service/utils"

	"github.com/google/uuid"
)

// ErrStorage wraps any failure to read or write the scores document.
// Handlers report it generically; the process never crashes on it.
var ErrStorage = errors.New("storage error")

// RankNotRetained is returned by Insert when the new entry was evicted by
// truncation before it could be ranked (it would have placed 501st or
// lower). The entry is accepted but not stored.
const RankNotRetained = 0

// ScoreStore owns the leaderboard document on disk. The whole
// load-mutate-save sequence runs under one writer lock; reads share the
// lock among themselves, and the document itself is replaced atomically so
// they never see a partial write.
type ScoreStore struct {
	mu   sync.RWMutex
	path string
}

func NewScoreStore(path string) (*ScoreStore, error) {
	s := &ScoreStore{path: path}
	if err := utils.EnsureDataDir(path); err != nil {
		return nil, fmt.Errorf("failed to ensure data dir: %w", err)
	}
	// Create an empty document if none exists yet, so first List doesn't
	// have to special-case a missing file.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save([]models.ScoreEntry{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the location of the scores document.
func (s *ScoreStore) Path() string {
	return s.path
}

func (s *ScoreStore) load() ([]models.ScoreEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.ScoreEntry{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	var scores []models.ScoreEntry
	if err := json.Unmarshal(data, &scores); err != nil {
		// Corrupt document is an operational error, not an empty board.
		return nil, fmt.Errorf("%w: malformed scores document: %v", ErrStorage, err)
	}
	return scores, nil
}

func (s *ScoreStore) save(scores []models.ScoreEntry) error {
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := utils.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// List returns the fastest entries, ascending by time, capped at the public
// listing limit. Read-only; never mutates the document.
func (s *ScoreStore) List() ([]models.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(scores) > models.ListLimit {
		scores = scores[:models.ListLimit]
	}
	return scores, nil
}

// Count reports how many entries the document currently holds.
func (s *ScoreStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(scores), nil
}

// Snapshot returns the raw document bytes, for backup upload.
func (s *ScoreStore) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return data, nil
}

// Insert appends a new entry built from the (already validated) submission,
// re-sorts ascending by time, truncates to capacity and persists the result
// atomically. Returns the stored entry and its 1-based rank, or
// RankNotRetained when the entry didn't survive truncation.
func (s *ScoreStore) Insert(sub *models.ScoreSubmission, verified bool) (models.ScoreEntry, int, error) {
	entry := models.ScoreEntry{
		ID:       uuid.NewString(),
		Name:     sub.Name,
		Cinema:   sub.Cinema,
		Email:    sub.Email,
		TimeMs:   sub.TimeMs,
		Date:     time.Now().UTC(),
		Verified: verified,
		Mobile:   sub.Mobile,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scores, err := s.load()
	if err != nil {
		return models.ScoreEntry{}, 0, err
	}

	scores = append(scores, entry)
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TimeMs < scores[j].TimeMs
	})
	if len(scores) > models.MaxScores {
		scores = scores[:models.MaxScores]
	}

	if err := s.save(scores); err != nil {
		return models.ScoreEntry{}, 0, err
	}

	rank := RankNotRetained
	for i := range scores {
		if scores[i].ID == entry.ID {
			rank = i + 1
			break
		}
	}
	return entry, rank, nil
}

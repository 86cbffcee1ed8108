package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"leaderboard-service/services"
	"leaderboard-service/utils"

	"github.com/google/uuid"
)

// BackupWorker periodically uploads the current scores document to R2.
// Failures are logged and retried on the next tick — a broken backup must
// never affect request handling.
type BackupWorker struct {
	Store    *services.ScoreStore
	Interval time.Duration
}

func NewBackupWorker(store *services.ScoreStore, interval time.Duration) *BackupWorker {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &BackupWorker{Store: store, Interval: interval}
}

func (w *BackupWorker) uploadSnapshot() error {
	data, err := w.Store.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read scores snapshot: %w", err)
	}

	key := fmt.Sprintf("backups/scores-%s-%s.json",
		time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	if err := utils.UploadBytesToR2(key, data, "application/json"); err != nil {
		return err
	}

	log.Printf("[Backup] Uploaded scores snapshot to %s (%d bytes)", key, len(data))
	return nil
}

// Run blocks until ctx is cancelled, uploading one snapshot per interval.
func (w *BackupWorker) Run(ctx context.Context) {
	log.Printf("[Backup] Starting scores backup worker (every %s)...", w.Interval)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Backup] Backup worker stopped.")
			return
		case <-ticker.C:
			if err := w.uploadSnapshot(); err != nil {
				log.Printf("[Backup] Snapshot upload failed: %v", err)
			}
		}
	}
}

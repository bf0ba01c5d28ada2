package duckdb

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const retentionSweepInterval = time.Hour

// RetentionConfig holds configuration for the history retention cleaner.
type RetentionConfig struct {
	RetentionDays int
	Logger        *zap.Logger
}

// RetentionCleaner periodically deletes finished games older than the
// configured retention period. The leaderboard is never pruned.
type RetentionCleaner struct {
	store         *Store
	retentionDays int
	log           *zap.Logger
	done          chan struct{}
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewRetentionCleaner creates a cleaner for the game history.
// Returns nil when retention is 0 (disabled).
func NewRetentionCleaner(store *Store, conf RetentionConfig) *RetentionCleaner {
	if conf.RetentionDays <= 0 {
		return nil
	}
	log := conf.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rc := &RetentionCleaner{
		store:         store,
		retentionDays: conf.RetentionDays,
		log:           log,
		done:          make(chan struct{}),
	}

	// Startup cleanup to catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()

	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(retentionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	cutoff := time.Now().Add(-time.Duration(rc.retentionDays) * 24 * time.Hour)

	rows, err := rc.store.DeleteGamesBefore(context.Background(), cutoff)
	if err != nil {
		rc.log.Warn("history retention cleanup failed", zap.Error(err))
		return
	}
	if rows > 0 {
		rc.log.Info("history retention cleanup",
			zap.Int64("deleted", rows),
			zap.Int("retention_days", rc.retentionDays),
		)
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}

// Package scheduler runs the periodic gist push on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/pagetrack/internal/settingsstore"
)

// Pusher enqueues or performs a snapshot upload.
type Pusher interface {
	Push(ctx context.Context) error
}

// GistSyncScheduler manages periodic snapshot pushes to the sync gist.
type GistSyncScheduler struct {
	settingsStore *settingsstore.SettingsStore
	pusher        Pusher

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
}

// NewGistSyncScheduler creates a new scheduler instance
func NewGistSyncScheduler(settingsStore *settingsstore.SettingsStore, pusher Pusher) *GistSyncScheduler {
	return &GistSyncScheduler{
		settingsStore: settingsStore,
		pusher:        pusher,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if scheduled sync is enabled
func (s *GistSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	config := s.settingsStore.GetGistSyncConfig()

	if !config.Enabled {
		log.Printf("Gist sync scheduler: disabled")
		return nil
	}

	if config.Token == "" {
		log.Printf("Gist sync scheduler: token not configured, skipping")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.runPush()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(config.Schedule)
	log.Printf("Gist sync scheduler: started with schedule '%s' (%s). Next run: %v",
		config.Schedule,
		settingsstore.GetCronDescription(config.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *GistSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancelFunc = nil
	runner := s.cron
	entryID := s.entryID
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete.
	// The wait must not hold s.mu: an in-flight push needs the lock to
	// clear isSyncing when it finishes.
	<-runner.Stop().Done()
	runner.Remove(entryID)

	log.Printf("Gist sync scheduler: stopped")
}

// Reschedule restarts the scheduler with current settings (call after
// the schedule or token changes).
func (s *GistSyncScheduler) Reschedule() error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}

	return s.Start(context.Background())
}

// RunNow triggers an immediate push
func (s *GistSyncScheduler) RunNow() error {
	go s.runPush()
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *GistSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a push is currently in progress
func (s *GistSyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next push will occur
func (s *GistSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runPush performs the actual push operation
func (s *GistSyncScheduler) runPush() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Gist sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	config := s.settingsStore.GetGistSyncConfig()

	if !config.Enabled {
		log.Printf("Gist sync: skipped (disabled)")
		return
	}

	if config.Token == "" {
		log.Printf("Gist sync: skipped (token not configured)")
		_ = s.settingsStore.SetGistSyncStatus("failed", "Token not configured")
		return
	}

	log.Printf("Gist sync: starting scheduled push")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.pusher.Push(ctx); err != nil {
		log.Printf("Gist sync: push failed: %v", err)
		return
	}

	log.Printf("Gist sync: push completed in %v", time.Since(startTime).Round(time.Millisecond))
}

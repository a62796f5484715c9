package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mjsalmon/fpl-edge/internal/providers"
)

// SnapshotRefresher periodically pulls the upstream feed and swaps the
// persisted snapshot. Refresh state is scoped to this service instance, not
// the process, so independent refreshers never interfere.
type SnapshotRefresher struct {
	client   *providers.FPLClient
	store    *SnapshotStore
	hub      *Hub
	logger   *logrus.Logger
	cron     *cron.Cron
	interval time.Duration

	mu           sync.Mutex
	isRunning    bool
	isRefreshing bool
	lastRefresh  time.Time
	lastError    string
}

func NewSnapshotRefresher(
	client *providers.FPLClient,
	store *SnapshotStore,
	hub *Hub,
	logger *logrus.Logger,
	interval time.Duration,
) *SnapshotRefresher {
	return &SnapshotRefresher{
		client:   client,
		store:    store,
		hub:      hub,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start schedules the periodic refresh and, unless skipInitialSync is set,
// kicks off an initial one in the background.
func (s *SnapshotRefresher) Start(skipInitialSync bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("snapshot refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule snapshot refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if !skipInitialSync {
		go s.refresh()
	}

	s.logger.Info("Snapshot refresher started")
	return nil
}

// Stop halts the schedule and waits for a running job to finish. The mutex
// is released before waiting: an in-flight refresh needs it to record its
// outcome, so holding it across the wait would deadlock.
func (s *SnapshotRefresher) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("Snapshot refresher stopped")
}

// RefreshNow triggers an immediate refresh, rejecting overlap with one
// already in flight.
func (s *SnapshotRefresher) RefreshNow() error {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		return fmt.Errorf("a snapshot refresh is already in progress")
	}
	s.mu.Unlock()

	go s.refresh()
	return nil
}

func (s *SnapshotRefresher) refresh() {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		return
	}
	s.isRefreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRefreshing = false
		s.mu.Unlock()
	}()

	s.logger.Info("Starting snapshot refresh")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	feed, err := s.client.FetchSnapshot(ctx)
	if err != nil {
		s.recordResult(err)
		s.logger.Errorf("Snapshot fetch failed: %v", err)
		return
	}

	generation, err := s.store.ReplaceSnapshot(feed)
	if err != nil {
		s.recordResult(err)
		s.logger.Errorf("Snapshot replace failed: %v", err)
		return
	}

	s.recordResult(nil)
	if s.hub != nil {
		s.hub.BroadcastSnapshotUpdate(generation)
	}
	s.logger.Infof("Snapshot refresh complete, generation %s", generation)
}

func (s *SnapshotRefresher) recordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		return
	}
	s.lastRefresh = time.Now().UTC()
	s.lastError = ""
}

// Status reports the refresher's schedule and last outcome.
func (s *SnapshotRefresher) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	status := map[string]interface{}{
		"is_running":       s.isRunning,
		"is_refreshing":    s.isRefreshing,
		"refresh_interval": s.interval.String(),
		"next_runs":        nextRuns,
	}
	if !s.lastRefresh.IsZero() {
		status["last_refresh"] = s.lastRefresh
	}
	if s.lastError != "" {
		status["last_error"] = s.lastError
	}
	return status
}

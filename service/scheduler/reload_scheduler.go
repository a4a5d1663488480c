/*
 * @module service/scheduler/reload_scheduler
 * @description Periodic dataset reload driven by a cron expression
 * @architecture Scheduler layer - robfig/cron with second-level precision
 * @documentReference DESIGN.md
 * @stateFlow Start -> AddFunc(RELOAD_CRON) -> tick -> Reloader.Load -> Stop waits for running job
 * @rules An empty expression disables scheduling; overlapping ticks are skipped
 * @dependencies github.com/robfig/cron/v3
 * @refs service/dataset/service.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"peer-funding-service/service/dataset"

	"github.com/robfig/cron/v3"
)

// Reloader reloads the active dataset.
type Reloader interface {
	Load(ctx context.Context) (*dataset.Snapshot, error)
}

// ReloadScheduler runs Reloader.Load on a cron schedule.
type ReloadScheduler struct {
	reloader Reloader
	expr     string
	timeout  time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	started bool
}

// NewReloadScheduler creates a scheduler. Expressions use six fields (sec min hour dom month dow)
// or descriptors such as "@every 1h".
func NewReloadScheduler(reloader Reloader, expr string) *ReloadScheduler {
	return &ReloadScheduler{
		reloader: reloader,
		expr:     expr,
		timeout:  5 * time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}
}

// Enabled reports whether an expression is configured.
func (s *ReloadScheduler) Enabled() bool {
	return s.expr != ""
}

// Start registers the reload job and starts the cron loop.
func (s *ReloadScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("reload scheduler already started")
	}
	if !s.Enabled() {
		slog.Info("dataset reload schedule disabled")
		return nil
	}

	id, err := s.cron.AddFunc(s.expr, s.run)
	if err != nil {
		slog.Error("invalid reload cron expression",
			"cron_expression", s.expr,
			"error", err,
			"help", "six fields are required (sec min hour dom month dow), e.g. 0 0 3 * * *")
		return fmt.Errorf("add reload job: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.started = true

	slog.Info("dataset reload scheduled", "cron_expression", s.expr, "next_run", s.cron.Entry(id).Next)
	return nil
}

// Stop halts scheduling and waits for a running reload to finish.
func (s *ReloadScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
	slog.Info("dataset reload scheduler stopped")
}

// NextRun returns the next scheduled reload, zero when not scheduled.
func (s *ReloadScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *ReloadScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	snapshot, err := s.reloader.Load(ctx)
	if err != nil {
		slog.Error("scheduled dataset reload failed", "error", err, "duration", time.Since(start))
		return
	}
	slog.Info("scheduled dataset reload finished",
		"version_id", snapshot.VersionID(),
		"districts", snapshot.DistrictCount(),
		"duration", time.Since(start))
}

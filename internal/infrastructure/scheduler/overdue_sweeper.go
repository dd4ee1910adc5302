// Package scheduler runs periodic background maintenance.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// tickInterval is how often the sweeper checks whether a run is due.
const tickInterval = time.Minute

// OverdueSweeper periodically flags sent invoices past their due date, so
// overdue status stays current even for tenants that have not logged in.
type OverdueSweeper struct {
	sweep      SweepFunc
	logger     *zap.Logger
	interval   time.Duration
	batchLimit int

	mu      sync.Mutex
	lastRun time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// SweepFunc flags invoices overdue as of the given time, up to limit rows,
// and reports how many were flagged.
type SweepFunc func(ctx context.Context, asOf time.Time, limit int) (int, error)

// OverdueSweeperConfig configures the sweeper.
type OverdueSweeperConfig struct {
	// Interval between sweeps. Defaults to one hour.
	Interval time.Duration
	// BatchLimit caps rows flagged per sweep. Defaults to 500.
	BatchLimit int
}

// NewOverdueSweeper creates a sweeper around the given sweep function.
func NewOverdueSweeper(sweep SweepFunc, cfg OverdueSweeperConfig, logger *zap.Logger) *OverdueSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueSweeper{
		sweep:      sweep,
		logger:     logger,
		interval:   cfg.Interval,
		batchLimit: cfg.BatchLimit,
	}
}

// Start launches the sweep loop. The first sweep runs immediately.
func (s *OverdueSweeper) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.loop(runCtx)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *OverdueSweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// LastRun reports when the sweeper last completed a run.
func (s *OverdueSweeper) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *OverdueSweeper) loop(ctx context.Context) {
	defer close(s.done)

	s.runOnce(ctx)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Since(s.LastRun()) >= s.interval {
				s.runOnce(ctx)
			}
		}
	}
}

func (s *OverdueSweeper) runOnce(ctx context.Context) {
	start := time.Now()
	flagged, err := s.sweep(ctx, start, s.batchLimit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("overdue sweep failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.lastRun = start
	s.mu.Unlock()

	if flagged > 0 {
		s.logger.Info("overdue sweep complete",
			zap.Int("flagged", flagged),
			zap.Duration("took", time.Since(start)))
	}
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when stopping a scheduler that was never started
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// OverdueRefresher marks unpaid invoices past their due date as overdue
type OverdueRefresher interface {
	RefreshOverdue(ctx context.Context, asOf time.Time) (int, error)
}

// OverdueSchedulerConfig holds configuration for the overdue invoice scheduler
type OverdueSchedulerConfig struct {
	// Enabled indicates if the scheduler is active
	Enabled bool
	// DailyHour is the hour (0-23) to run the daily refresh
	DailyHour int
	// DailyMinute is the minute (0-59) to run the daily refresh
	DailyMinute int
	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
	// RunTimeout is the maximum time a single refresh can take
	RunTimeout time.Duration
}

// DefaultOverdueSchedulerConfig returns default scheduler configuration.
// Defaults to running at 1:00 AM daily.
func DefaultOverdueSchedulerConfig() OverdueSchedulerConfig {
	return OverdueSchedulerConfig{
		Enabled:       true,
		DailyHour:     1,
		DailyMinute:   0,
		CheckInterval: time.Minute,
		RunTimeout:    5 * time.Minute,
	}
}

// OverdueScheduler runs the overdue invoice refresh once a day
type OverdueScheduler struct {
	config    OverdueSchedulerConfig
	refresher OverdueRefresher
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewOverdueScheduler creates a new overdue invoice scheduler
func NewOverdueScheduler(config OverdueSchedulerConfig, refresher OverdueRefresher, logger *zap.Logger) *OverdueScheduler {
	return &OverdueScheduler{
		config:    config,
		refresher: refresher,
		logger:    logger,
	}
}

// Start starts the scheduler loop
func (s *OverdueScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Overdue invoice scheduler started",
		zap.Int("daily_hour", s.config.DailyHour),
		zap.Int("daily_minute", s.config.DailyMinute),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *OverdueScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue invoice scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue invoice scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the daily refresh
func (s *OverdueScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun runs the refresh if the scheduled time has arrived and it
// has not run yet today
func (s *OverdueScheduler) checkAndRun(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != s.config.DailyHour || now.Minute() != s.config.DailyMinute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.RunOnce(ctx)
}

// RunOnce executes a single overdue refresh immediately
func (s *OverdueScheduler) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	updated, err := s.refresher.RefreshOverdue(runCtx, start)
	if err != nil {
		s.logger.Error("Overdue invoice refresh failed", zap.Error(err))
		return
	}

	s.logger.Info("Overdue invoice refresh completed",
		zap.Int("invoices_updated", updated),
		zap.Duration("duration", time.Since(start)),
	)
}

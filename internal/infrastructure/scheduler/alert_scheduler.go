package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fuelsync/backend/internal/infrastructure/config"
	"github.com/fuelsync/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AlertRunner evaluates alert rules for every active tenant and reports how
// many new alerts were raised
type AlertRunner interface {
	RunOnce(ctx context.Context) (int, error)
}

// Observer is notified after every evaluation pass
type Observer interface {
	ObserveAlertRun(ctx context.Context, created int, elapsed time.Duration, err error)
}

// RunResult describes one evaluation pass
type RunResult struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Created   int           `json:"created"`
	Error     string        `json:"error,omitempty"`
}

// AlertScheduler runs alert evaluation on a fixed interval
type AlertScheduler struct {
	interval time.Duration
	timeout  time.Duration
	runner   AlertRunner
	observer Observer
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// passMu serializes passes so a manual run never overlaps a tick
	passMu  sync.Mutex
	lastRun atomic.Pointer[RunResult]
}

// NewAlertScheduler creates a scheduler from the alerts configuration
func NewAlertScheduler(cfg config.AlertsConfig, runner AlertRunner, logger *zap.Logger) (*AlertScheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = cfg.Interval
	}
	return &AlertScheduler{
		interval: cfg.Interval,
		timeout:  timeout,
		runner:   runner,
		logger:   logger.Named("alert-scheduler"),
	}, nil
}

// SetObserver registers o to receive the outcome of every pass
func (s *AlertScheduler) SetObserver(o Observer) {
	s.observer = o
}

// Start launches the ticker loop
func (s *AlertScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Alert scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("timeout", s.timeout),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight pass, or for ctx
func (s *AlertScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Alert scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the ticker loop is active
func (s *AlertScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// LastRun returns the result of the most recent finished pass, or nil. It
// does not wait for a pass in progress.
func (s *AlertScheduler) LastRun() *RunResult {
	last := s.lastRun.Load()
	if last == nil {
		return nil
	}
	r := *last
	return &r
}

func (s *AlertScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("Alert evaluation failed", zap.Error(err))
			}
		}
	}
}

var passLabels = map[string]string{"job": "alert_rules"}

// RunOnce performs one evaluation pass bounded by the job timeout
func (s *AlertScheduler) RunOnce(ctx context.Context) (*RunResult, error) {
	if !s.passMu.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer s.passMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result := &RunResult{StartedAt: time.Now().UTC()}
	var (
		created int
		err     error
	)
	telemetry.WithProfilingLabels(ctx, passLabels, func(ctx context.Context) {
		created, err = s.runner.RunOnce(ctx)
	})
	result.Duration = time.Since(result.StartedAt)
	result.Created = created
	if err != nil {
		result.Error = err.Error()
	}
	s.lastRun.Store(result)
	if s.observer != nil {
		s.observer.ObserveAlertRun(ctx, created, result.Duration, err)
	}

	s.logger.Info("Alert evaluation finished",
		zap.Int("created", created),
		zap.Duration("duration", result.Duration),
		zap.Bool("failed", err != nil),
	)
	r := *result
	return &r, err
}

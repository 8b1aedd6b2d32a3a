package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"hikvision-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Runner runs one sync cycle. *reconcile.Engine satisfies it.
type Runner interface {
	RunCycle(ctx context.Context) (*reconcile.CycleResult, error)
}

// Flusher persists pending state on shutdown.
type Flusher interface {
	Save(ctx context.Context) error
}

// Status is the scheduler snapshot served by GET /sync/status.
type Status struct {
	Running    bool                   `json:"running"`
	CyclesRun  int64                  `json:"cycles_run"`
	Interval   string                 `json:"interval"`
	NextRunAt  *time.Time             `json:"next_run_at,omitempty"`
	LastError  string                 `json:"last_error,omitempty"`
	LastResult *reconcile.CycleResult `json:"last_result,omitempty"`
}

// Service drives sync cycles on an interval and on demand.
// At most one cycle runs at a time; concurrent callers share the in-flight cycle.
type Service struct {
	runner  Runner
	flusher Flusher
	cfg     Config
	logger  *zap.Logger

	sf      singleflight.Group
	running atomic.Bool
	cycles  atomic.Int64

	mu        sync.RWMutex
	last      *reconcile.CycleResult
	lastErr   error
	nextRunAt *time.Time
}

// NewService creates a scheduler. flusher may be nil.
func NewService(runner Runner, flusher Flusher, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		runner:  runner,
		flusher: flusher,
		cfg:     cfg,
		logger:  logger,
	}
}

// RunOnce runs a cycle, or joins the one already running.
func (s *Service) RunOnce(ctx context.Context) (*reconcile.CycleResult, error) {
	v, err, shared := s.sf.Do("cycle", func() (any, error) {
		s.running.Store(true)
		defer s.running.Store(false)

		result, err := s.runner.RunCycle(ctx)
		s.cycles.Add(1)
		s.record(result, err)
		return result, err
	})
	if shared {
		s.logger.Debug("Joined in-flight sync cycle")
	}

	result, _ := v.(*reconcile.CycleResult)
	return result, err
}

// Run runs a cycle immediately (when configured) and then every interval until
// ctx is done. Pending state is flushed before it returns.
func (s *Service) Run(ctx context.Context) error {
	interval := s.cfg.Interval()
	s.logger.Info("Scheduler started", zap.Duration("interval", interval))

	if s.cfg.RunOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.setNextRun(time.Now().Add(interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopping")
			s.flush()
			return nil
		case <-ticker.C:
			s.tick(ctx)
			s.setNextRun(time.Now().Add(interval))
		}
	}
}

// Status returns the current scheduler snapshot.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Running:    s.running.Load(),
		CyclesRun:  s.cycles.Load(),
		Interval:   s.cfg.Interval().String(),
		NextRunAt:  s.nextRunAt,
		LastResult: s.last,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Service) tick(ctx context.Context) {
	// Errors are recorded and logged; the loop keeps going.
	_, _ = s.RunOnce(ctx)
}

func (s *Service) record(result *reconcile.CycleResult, err error) {
	s.mu.Lock()
	s.last = result
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Sync cycle failed", zap.Error(err))
	}
	if result == nil {
		return
	}

	s.logger.Info("Sync finished",
		zap.String("cycle_id", result.ID),
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration()),
	)
	for _, e := range result.ErrorStrings() {
		s.logger.Warn("Sync error", zap.String("cycle_id", result.ID), zap.String("error", e))
	}
}

func (s *Service) setNextRun(t time.Time) {
	s.mu.Lock()
	s.nextRunAt = &t
	s.mu.Unlock()
}

// flush saves state with a fresh context since the run context is already done.
func (s *Service) flush() {
	if s.flusher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FlushTimeout())
	defer cancel()

	if err := s.flusher.Save(ctx); err != nil {
		s.logger.Error("Failed to flush sync state on shutdown", zap.Error(err))
		return
	}
	s.logger.Info("Sync state flushed")
}

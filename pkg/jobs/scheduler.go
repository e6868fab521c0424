package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Trigger failure modes.
var (
	ErrUnknownSource  = errors.New("unknown source")
	ErrAlreadyRunning = errors.New("source is already running")
)

// Runner executes one update run for a named source.
type Runner func(ctx context.Context) error

// Scheduler triggers source runs on a fixed interval and accepts manual
// triggers. Runs for different sources may overlap; a second run of the same
// source while one is in flight is rejected, since each source must process
// its documents sequentially.
type Scheduler struct {
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	sources map[string]*sourceState

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

type sourceState struct {
	runner  Runner
	running bool
}

// NewScheduler builds a scheduler with the given tick interval.
func NewScheduler(interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		interval: interval,
		logger:   logger,
		sources:  make(map[string]*sourceState),
	}
}

// Register adds a named source runner. Must be called before Start.
func (s *Scheduler) Register(name string, runner Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[name] = &sourceState{runner: runner}
}

// Start launches the periodic loop. It triggers every registered source once
// immediately and then on every tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.triggerAll()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.triggerAll()
			}
		}
	}()
}

// Trigger starts one run of the named source in the background. It returns an
// error when the source is unknown or a run is already in flight.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	state, ok := s.sources[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	if state.running {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAlreadyRunning, name)
	}
	state.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			state.running = false
			s.mu.Unlock()
		}()

		runID := uuid.NewString()
		log := s.logger.With(zap.String("source", name), zap.String("run_id", runID))

		start := time.Now()
		if err := state.runner(s.runContext()); err != nil {
			log.Error("source run failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		log.Info("source run finished", zap.Duration("duration", time.Since(start)))
	}()

	return nil
}

// Sources returns the registered source names.
func (s *Scheduler) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	return names
}

// Stop cancels in-flight runs and waits for their goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

func (s *Scheduler) triggerAll() {
	for _, name := range s.Sources() {
		if err := s.Trigger(name); err != nil {
			s.logger.Warn("skipping scheduled trigger", zap.String("source", name), zap.Error(err))
		}
	}
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// Package service drives the simulation engine: timer-driven ticking,
// manual stepping, reset, and observer notification.
package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/elektrokombinacija/logibots/internal/sim"
)

// Status describes the service lifecycle.
type Status string

const (
	StatusIdle     Status = "IDLE"
	StatusRunning  Status = "RUNNING"
	StatusPaused   Status = "PAUSED"
	StatusFinished Status = "FINISHED_STABLE"
)

// ErrNotPaused is returned by StepOnce while the timer is driving ticks.
var ErrNotPaused = errors.New("manual step requires the simulation to be paused")

// Observer receives the post-tick snapshot. Callbacks run on the ticking
// goroutine and must not block.
type Observer interface {
	SimulationUpdated(snap sim.Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(snap sim.Snapshot)

func (f ObserverFunc) SimulationUpdated(snap sim.Snapshot) { f(snap) }

// EngineFactory rebuilds the engine from the last loaded scenario. Reset
// uses it to start over without re-reading files here.
type EngineFactory func() (*sim.Engine, error)

// Service owns an engine and serializes all control operations.
type Service struct {
	logger  *log.Logger
	factory EngineFactory

	mu        sync.Mutex
	engine    *sim.Engine
	status    Status
	interval  time.Duration
	stopTimer chan struct{}
	observers []Observer
}

// New creates a service around a freshly built engine.
func New(factory EngineFactory, interval time.Duration, logger *log.Logger) (*Service, error) {
	engine, err := factory()
	if err != nil {
		return nil, err
	}
	return &Service{
		logger:   logger,
		factory:  factory,
		engine:   engine,
		status:   StatusIdle,
		interval: interval,
	}, nil
}

// Subscribe registers an observer for post-tick snapshots.
func (s *Service) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Status returns the current lifecycle state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Cycle returns the engine's completed tick count.
func (s *Service) Cycle() int {
	return s.engine.Cycle()
}

// Engine exposes the underlying engine for read-only snapshot access.
func (s *Service) Engine() *sim.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// Start launches timer-driven ticking. Idempotent while running.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusRunning || s.status == StatusFinished {
		return
	}
	s.status = StatusRunning
	stop := make(chan struct{})
	s.stopTimer = stop
	go s.run(stop)
}

// Pause stops the timer between ticks. A tick in flight completes.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
}

func (s *Service) pauseLocked() {
	if s.stopTimer != nil {
		close(s.stopTimer)
		s.stopTimer = nil
	}
	if s.status == StatusRunning {
		s.status = StatusPaused
	}
}

// StepOnce advances exactly one tick. Only legal while paused or idle.
func (s *Service) StepOnce() (sim.StabilityStatus, error) {
	s.mu.Lock()
	if s.status == StatusRunning {
		s.mu.Unlock()
		return sim.StabilityStatus{}, ErrNotPaused
	}
	engine := s.engine
	s.mu.Unlock()

	st := engine.Tick()
	s.afterTick(engine, st)
	return st, nil
}

// Reset rebuilds the engine from the last scenario and returns to IDLE.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
	engine, err := s.factory()
	if err != nil {
		return err
	}
	s.engine = engine
	s.status = StatusIdle
	if s.logger != nil {
		s.logger.Printf("simulation reset")
	}
	return nil
}

func (s *Service) run(stop chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			engine := s.engine
			s.mu.Unlock()

			st := engine.Tick()
			s.afterTick(engine, st)
			if st.Stable {
				s.mu.Lock()
				s.pauseLocked()
				s.status = StatusFinished
				s.mu.Unlock()
				if s.logger != nil {
					s.logger.Printf("simulation stable after %d cycles", st.Cycle)
				}
				return
			}
		}
	}
}

func (s *Service) afterTick(engine *sim.Engine, st sim.StabilityStatus) {
	snap := engine.Snapshot()
	s.mu.Lock()
	observers := append([]Observer(nil), s.observers...)
	if st.Stable && s.status != StatusRunning {
		s.status = StatusFinished
	}
	s.mu.Unlock()
	for _, o := range observers {
		o.SimulationUpdated(snap)
	}
}

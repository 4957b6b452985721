// Package state holds the view-side state of the visualizer: the control
// handle to the simulation service and the latest snapshot to render.
package state

import (
	"sync"

	"github.com/elektrokombinacija/logibots/internal/service"
	"github.com/elektrokombinacija/logibots/internal/sim"
)

// CellSize is the world-space edge length of one grid cell.
const CellSize = 40.0

// State is shared between widgets and the snapshot observer.
type State struct {
	Service *service.Service

	mu   sync.Mutex
	snap sim.Snapshot
}

// NewState wires view state to a running service and seeds the first
// snapshot.
func NewState(svc *service.Service) *State {
	st := &State{Service: svc}
	st.snap = svc.Engine().Snapshot()
	svc.Subscribe(service.ObserverFunc(st.SimulationUpdated))
	return st
}

// SimulationUpdated stores the post-tick snapshot for the next frame.
func (s *State) SimulationUpdated(snap sim.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Snapshot returns the most recent snapshot.
func (s *State) Snapshot() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Refresh pulls a fresh snapshot outside the observer path (after reset).
func (s *State) Refresh() {
	snap := s.Service.Engine().Snapshot()
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Running reports whether the timer is driving ticks.
func (s *State) Running() bool {
	return s.Service.Status() == service.StatusRunning
}

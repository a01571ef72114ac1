// Package fleet owns the authoritative state of every elevator. All access
// goes through the Fleet's lock: writers get the live elevators inside a
// critical section, readers get deep copies.
package fleet

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"

	"elevatorsim/elevator"
)

type Fleet struct {
	mu        sync.RWMutex
	registry  *elevator.Registry
	elevators []elevator.Elevator
}

// New creates count elevators with ids 0..count-1, idle at the lowest floor.
func New(registry *elevator.Registry, count int) (*Fleet, error) {
	if count < 1 {
		return nil, errors.Errorf("fleet needs at least one elevator, got %d", count)
	}
	elevators := make([]elevator.Elevator, count)
	for id := range elevators {
		elevators[id] = elevator.ElevatorInit(id, registry.Lowest())
	}
	return &Fleet{registry: registry, elevators: elevators}, nil
}

func (f *Fleet) Registry() *elevator.Registry { return f.registry }

func (f *Fleet) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.elevators)
}

// Update runs fn with exclusive access to the live elevators, ordered by id.
// fn must not retain the slice after it returns.
func (f *Fleet) Update(fn func(elevators []elevator.Elevator) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.elevators)
}

// View runs fn under the read lock. fn must not mutate or retain elevators.
func (f *Fleet) View(fn func(elevators []elevator.Elevator)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn(f.elevators)
}

// Snapshot returns a deep copy of every elevator.
func (f *Fleet) Snapshot() ([]elevator.Elevator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []elevator.Elevator
	if err := deepcopy.Copy(&out, f.elevators); err != nil {
		return nil, errors.Wrap(err, "snapshot fleet")
	}
	for i := range out {
		if out[i].Trips == nil {
			out[i].Trips = []elevator.Trip{}
		}
	}
	return out, nil
}

func (f *Fleet) Elevator(id int) (elevator.Elevator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if id < 0 || id >= len(f.elevators) {
		return elevator.Elevator{}, errors.Wrapf(elevator.ErrElevatorNotFound, "elevator %d", id)
	}
	return f.elevators[id].Clone()
}

// Idle reports the terminal condition: every car idle with an empty queue.
func (f *Fleet) Idle() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, e := range f.elevators {
		if e.Status != elevator.Idle || e.HasTrips() {
			return false
		}
	}
	return true
}

package elevator

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

type Status int

const (
	Idle Status = iota
	MovingUp
	MovingDown
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case MovingUp:
		return "moving up"
	case MovingDown:
		return "moving down"
	default:
		return "undefined"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	if s < Idle || s > MovingDown {
		return nil, errors.Errorf("unknown elevator status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Idle, MovingUp, MovingDown} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return errors.Errorf("unknown elevator status %q", string(text))
}

// Direction is +1 going up, -1 going down and 0 when idle.
func (s Status) Direction() int {
	switch s {
	case MovingUp:
		return 1
	case MovingDown:
		return -1
	default:
		return 0
	}
}

// Sign returns the direction of travel from one floor number to another.
func Sign(from, to int) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}

func StatusFor(direction int) Status {
	switch {
	case direction > 0:
		return MovingUp
	case direction < 0:
		return MovingDown
	default:
		return Idle
	}
}

type Elevator struct {
	ID           int    `json:"id"`
	CurrentFloor Floor  `json:"currentFloor"`
	Status       Status `json:"status"`
	Trips        []Trip `json:"trips"`
}

func ElevatorInit(id int, floor Floor) Elevator {
	return Elevator{
		ID:           id,
		CurrentFloor: floor,
		Status:       Idle,
		Trips:        []Trip{},
	}
}

// Clone returns a deep copy that shares no trip storage with e.
func (e Elevator) Clone() (Elevator, error) {
	var out Elevator
	if err := deepcopy.Copy(&out, e); err != nil {
		return Elevator{}, errors.Wrapf(err, "copy elevator %d", e.ID)
	}
	if out.Trips == nil {
		out.Trips = []Trip{}
	}
	return out, nil
}

func (e Elevator) HasTrips() bool { return len(e.Trips) > 0 }

// FinalStop is the dropoff floor of the last trip in the queue.
func (e Elevator) FinalStop() (Floor, bool) {
	if len(e.Trips) == 0 {
		return Floor{}, false
	}
	return e.Trips[len(e.Trips)-1].DropOff.Target, true
}

func (e *Elevator) RemoveTrip(id uuid.UUID) bool {
	for i := range e.Trips {
		if e.Trips[i].ID == id {
			e.Trips = append(e.Trips[:i], e.Trips[i+1:]...)
			return true
		}
	}
	return false
}

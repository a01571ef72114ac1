// Package fsm advances elevators one discrete step at a time.
package fsm

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"elevatorsim/elevator"
	"elevatorsim/requests"
)

type EventKind string

const (
	EventMoved      EventKind = "moved"
	EventPickedUp   EventKind = "picked-up"
	EventDroppedOff EventKind = "dropped-off"
	EventIdle       EventKind = "idle"
	EventSkipped    EventKind = "skipped"
)

type Leg string

const (
	LegPickUp  Leg = "pickup"
	LegDropOff Leg = "drop off"
)

// Event describes one state change of one elevator during a tick.
type Event struct {
	ElevatorID int             `json:"elevatorId"`
	Kind       EventKind       `json:"kind"`
	Floor      int             `json:"floor"`
	TripID     uuid.UUID       `json:"tripId"`
	Leg        Leg             `json:"leg,omitempty"`
	Target     int             `json:"target"`
	Status     elevator.Status `json:"status"`
	Error      string          `json:"error,omitempty"`
}

func newEvent(e *elevator.Elevator, kind EventKind, trip elevator.Trip) Event {
	return Event{
		ElevatorID: e.ID,
		Kind:       kind,
		Floor:      e.CurrentFloor.Number,
		TripID:     trip.ID,
		Status:     e.Status,
	}
}

// resolveArrivals completes, in queue order, every leg whose target is the
// current floor. This takes no time: a car arriving at a stop finishes the
// stop in the same tick.
func resolveArrivals(e *elevator.Elevator) (events []Event, removed bool, err error) {
	for i := 0; i < len(e.Trips); {
		trip := &e.Trips[i]

		if trip.Waiting() && trip.PickUp.Target.Number == e.CurrentFloor.Number {
			if err := trip.PickUp.Complete(); err != nil {
				return events, removed, err
			}
			ev := newEvent(e, EventPickedUp, *trip)
			ev.Leg, ev.Target = LegPickUp, trip.PickUp.Target.Number
			events = append(events, ev)
		}

		if !trip.Waiting() && trip.DropOff.Target.Number == e.CurrentFloor.Number {
			if err := trip.CompleteDropOff(); err != nil {
				return events, removed, err
			}
			ev := newEvent(e, EventDroppedOff, *trip)
			ev.Leg, ev.Target = LegDropOff, trip.DropOff.Target.Number
			events = append(events, ev)
			e.Trips = append(e.Trips[:i], e.Trips[i+1:]...)
			removed = true
			continue
		}
		i++
	}
	return events, removed, nil
}

// Step advances e by one tick in place. On error e may be partially updated;
// callers that need atomicity step a clone.
func Step(e *elevator.Elevator, registry *elevator.Registry) ([]Event, error) {
	if !e.HasTrips() {
		return nil, nil
	}

	events, removed, err := resolveArrivals(e)
	if err != nil {
		return events, errors.Wrapf(err, "elevator %d", e.ID)
	}

	if e.HasTrips() {
		i, err := requests.SelectTrip(*e)
		if err != nil {
			return events, err
		}
		trip := &e.Trips[i]
		leg, legName := trip.ActiveLeg(), LegDropOff
		if trip.Waiting() {
			legName = LegPickUp
		}

		dir := elevator.Sign(e.CurrentFloor.Number, leg.Target.Number)
		if dir == 0 {
			return events, errors.Errorf("elevator %d: unresolved %s at floor %d", e.ID, legName, e.CurrentFloor.Number)
		}
		if err := leg.Start(); err != nil {
			return events, errors.Wrapf(err, "elevator %d", e.ID)
		}
		next, err := registry.FloorByNumber(e.CurrentFloor.Number + dir)
		if err != nil {
			return events, errors.Wrapf(err, "elevator %d moving toward %d", e.ID, leg.Target.Number)
		}

		ev := newEvent(e, EventMoved, *trip)
		e.CurrentFloor = next
		e.Status = elevator.StatusFor(dir)
		ev.Floor, ev.Status = next.Number, e.Status
		ev.Leg, ev.Target = legName, leg.Target.Number
		events = append(events, ev)

		arrived, removedHere, err := resolveArrivals(e)
		events = append(events, arrived...)
		if err != nil {
			return events, errors.Wrapf(err, "elevator %d", e.ID)
		}
		removed = removed || removedHere
	}

	if !e.HasTrips() {
		e.Status = elevator.Idle
		events = append(events, Event{ElevatorID: e.ID, Kind: EventIdle, Floor: e.CurrentFloor.Number, Status: elevator.Idle})
	} else if removed {
		requests.Sequence(e)
	}
	return events, nil
}

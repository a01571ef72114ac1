// Package dispatch assigns rider requests to the cheapest elevator.
package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"elevatorsim/elevator"
	"elevatorsim/fleet"
	"elevatorsim/requests"
)

type Receipt struct {
	TripID     uuid.UUID `json:"tripId"`
	ElevatorID int       `json:"elevatorId"`
	Cost       int       `json:"cost"`
	From       int       `json:"from"`
	To         int       `json:"to"`
}

type Outcome string

const (
	Assigned  Outcome = "assigned"
	Duplicate Outcome = "duplicate"
)

// RequestRecord is one entry of the admission log.
type RequestRecord struct {
	Receipt
	Outcome Outcome   `json:"outcome"`
	At      time.Time `json:"at"`
}

type Dispatcher struct {
	fleet *fleet.Fleet
	log   zerolog.Logger

	mu      sync.Mutex
	records []RequestRecord
	now     func() time.Time
}

func New(f *fleet.Fleet, log *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		fleet: f,
		log:   log.With().Str("component", "dispatch").Logger(),
		now:   time.Now,
	}
}

// Candidate is an elevator with its cost for a request.
type Candidate struct {
	ElevatorID int
	Cost       int
}

// Cheapest evaluates the cost model for every elevator and returns the
// minimum, ties going to the lowest id.
func Cheapest(elevators []elevator.Elevator, from, to elevator.Floor) (Candidate, []Candidate) {
	all := make([]Candidate, 0, len(elevators))
	best := Candidate{ElevatorID: -1}
	for _, e := range elevators {
		c := Candidate{ElevatorID: e.ID, Cost: requests.Cost(e, from, to)}
		all = append(all, c)
		if best.ElevatorID == -1 || c.Cost < best.Cost || (c.Cost == best.Cost && c.ElevatorID < best.ElevatorID) {
			best = c
		}
	}
	return best, all
}

func findPending(elevators []elevator.Elevator, from, to int) (elevator.Trip, bool) {
	for _, e := range elevators {
		for _, trip := range e.Trips {
			if trip.Waiting() && trip.SameRoute(from, to) {
				return trip, true
			}
		}
	}
	return elevator.Trip{}, false
}

// Submit admits a request from one floor to another. An identical request
// whose rider is still waiting is acknowledged with ErrDuplicateRequest and
// the receipt of the trip already serving it.
func (d *Dispatcher) Submit(fromNumber, toNumber int) (Receipt, error) {
	registry := d.fleet.Registry()
	from, err := registry.FloorByNumber(fromNumber)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "pickup")
	}
	to, err := registry.FloorByNumber(toNumber)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "dropoff")
	}
	if from.Number == to.Number {
		return Receipt{}, errors.Wrapf(elevator.ErrInvalidRequest, "pickup and dropoff are both floor %d", from.Number)
	}

	var receipt Receipt
	var duplicate bool
	err = d.fleet.Update(func(elevators []elevator.Elevator) error {
		if existing, ok := findPending(elevators, from.Number, to.Number); ok {
			duplicate = true
			receipt = Receipt{
				TripID:     existing.ID,
				ElevatorID: existing.ElevatorID,
				Cost:       requests.Cost(elevators[existing.ElevatorID], from, to),
				From:       from.Number,
				To:         to.Number,
			}
			return nil
		}

		best, all := Cheapest(elevators, from, to)
		target := &elevators[best.ElevatorID]
		trip := elevator.NewTrip(target.ID, from, to)
		target.Trips = append(target.Trips, trip)
		requests.Sequence(target)

		receipt = Receipt{TripID: trip.ID, ElevatorID: target.ID, Cost: best.Cost, From: from.Number, To: to.Number}
		d.log.Debug().Interface("costs", all).Msgf("Costs for %d -> %d", from.Number, to.Number)
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	if duplicate {
		d.record(receipt, Duplicate)
		d.log.Info().Int("elevator", receipt.ElevatorID).Msgf("Request %d -> %d already pending, ignoring", from.Number, to.Number)
		return receipt, errors.Wrapf(elevator.ErrDuplicateRequest, "%d -> %d", from.Number, to.Number)
	}
	d.record(receipt, Assigned)
	d.log.Info().Int("elevator", receipt.ElevatorID).Int("cost", receipt.Cost).
		Msgf("Assigned %d -> %d", from.Number, to.Number)
	return receipt, nil
}

func (d *Dispatcher) record(r Receipt, outcome Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, RequestRecord{Receipt: r, Outcome: outcome, At: d.now()})
}

// Requests returns a copy of the admission log, oldest first.
func (d *Dispatcher) Requests() []RequestRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]RequestRecord, len(d.records))
	copy(out, d.records)
	return out
}

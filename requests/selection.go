package requests

import (
	"github.com/pkg/errors"

	"elevatorsim/elevator"
)

func find(trips []elevator.Trip, match func(elevator.Trip) bool) (int, bool) {
	for i, trip := range trips {
		if match(trip) {
			return i, true
		}
	}
	return -1, false
}

// SelectTrip returns the index of the trip to progress on this tick.
func SelectTrip(e elevator.Elevator) (int, error) {
	if len(e.Trips) == 0 {
		return -1, errors.Wrapf(elevator.ErrNoTripsForElevator, "elevator %d", e.ID)
	}

	if e.Status == elevator.Idle {
		return 0, nil
	}

	// Already at a stop: resolve it before moving on.
	if i, ok := find(e.Trips, func(trip elevator.Trip) bool {
		if trip.Waiting() {
			return here(e, trip.PickUp.Target)
		}
		return here(e, trip.DropOff.Target)
	}); ok {
		return i, nil
	}

	policies := []func(elevator.Trip) bool{
		func(trip elevator.Trip) bool { return !trip.Waiting() && ahead(e, trip.DropOff.Target) },
		func(trip elevator.Trip) bool { return trip.Waiting() && ahead(e, trip.PickUp.Target) },
		func(trip elevator.Trip) bool { return !trip.Waiting() && behind(e, trip.DropOff.Target) },
		func(trip elevator.Trip) bool { return trip.Waiting() && behind(e, trip.PickUp.Target) },
	}
	for _, policy := range policies {
		if i, ok := find(e.Trips, policy); ok {
			return i, nil
		}
	}
	return 0, nil
}

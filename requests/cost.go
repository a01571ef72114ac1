package requests

import "elevatorsim/elevator"

// DirectCost is the travel from the current floor to the pickup and on to the
// dropoff.
func DirectCost(current, from, to elevator.Floor) int {
	return distance(current, from) + distance(from, to)
}

// DetourCost charges the elevator for finishing its route at finalStop
// before turning back for the pickup.
func DetourCost(current, finalStop, from, to elevator.Floor) int {
	return distance(current, finalStop) + distance(finalStop, from) + distance(from, to)
}

// OnTheWay reports whether a pickup at from can be served without reversing.
func OnTheWay(e elevator.Elevator, from elevator.Floor) bool {
	switch e.Status {
	case elevator.MovingUp:
		return from.Number >= e.CurrentFloor.Number
	case elevator.MovingDown:
		return from.Number <= e.CurrentFloor.Number
	default:
		return false
	}
}

// Cost estimates the floor-steps e needs to reach from and then to, given the
// trips it has already committed to.
func Cost(e elevator.Elevator, from, to elevator.Floor) int {
	finalStop, ok := e.FinalStop()
	if !ok || OnTheWay(e, from) {
		return DirectCost(e.CurrentFloor, from, to)
	}
	return DetourCost(e.CurrentFloor, finalStop, from, to)
}

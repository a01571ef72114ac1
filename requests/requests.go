// Package requests holds the pure policies that decide where an elevator
// goes: the cost of taking on a new request, the order of its queue and the
// trip it works on next.
package requests

import "elevatorsim/elevator"

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func distance(a, b elevator.Floor) int {
	return abs(a.Number - b.Number)
}

// ahead reports whether floor lies strictly beyond the elevator in its
// direction of travel.
func ahead(e elevator.Elevator, floor elevator.Floor) bool {
	dir := e.Status.Direction()
	return dir != 0 && elevator.Sign(e.CurrentFloor.Number, floor.Number) == dir
}

// behind reports whether floor lies strictly behind the elevator.
func behind(e elevator.Elevator, floor elevator.Floor) bool {
	dir := e.Status.Direction()
	return dir != 0 && elevator.Sign(e.CurrentFloor.Number, floor.Number) == -dir
}

func here(e elevator.Elevator, floor elevator.Floor) bool {
	return e.CurrentFloor.Number == floor.Number
}

package requests

import (
	"sort"

	"elevatorsim/elevator"
)

// less is the pairwise rule cascade. The first rule that tells a and b apart
// decides.
func less(e elevator.Elevator, a, b elevator.Trip) bool {
	if e.Status == elevator.Idle {
		pendingA := !here(e, a.DropOff.Target)
		pendingB := !here(e, b.DropOff.Target)
		if pendingA != pendingB {
			return pendingA
		}
	}

	dir := e.Status.Direction()
	if dir != 0 {
		sameA := elevator.Sign(e.CurrentFloor.Number, a.PickUp.Target.Number) == dir
		sameB := elevator.Sign(e.CurrentFloor.Number, b.PickUp.Target.Number) == dir
		if sameA != sameB {
			return sameA
		}
	}

	return distance(e.CurrentFloor, a.PickUp.Target) < distance(e.CurrentFloor, b.PickUp.Target)
}

// Sequence reorders the trip queue in place so that the car sweeps in its
// current direction before reversing. Equal trips keep their queue order.
func Sequence(e *elevator.Elevator) {
	snapshot := *e
	sort.SliceStable(e.Trips, func(i, j int) bool {
		return less(snapshot, e.Trips[i], e.Trips[j])
	})
}

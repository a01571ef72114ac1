package elevator

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
)

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(0, 7, "G")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 7 {
		t.Errorf("Len() = %d, expected 7", reg.Len())
	}
	ground, err := reg.FloorByNumber(0)
	if err != nil {
		t.Fatalf("FloorByNumber(0): %v", err)
	}
	if ground.Name != "G" || ground.String() != "G" {
		t.Errorf("ground floor = %+v, expected alias G", ground)
	}
	top, _ := reg.FloorByNumber(6)
	if top.Name != "" || top.String() != "6" {
		t.Errorf("top floor = %+v, expected no alias", top)
	}
	for _, n := range []int{-1, 7, 100} {
		if _, err := reg.FloorByNumber(n); !errors.Is(err, ErrFloorNotFound) {
			t.Errorf("FloorByNumber(%d) error = %v, expected ErrFloorNotFound", n, err)
		}
	}
	floors := reg.Floors()
	for i := 1; i < len(floors); i++ {
		if floors[i].Number <= floors[i-1].Number {
			t.Errorf("Floors() not ascending at %d: %v", i, floors)
		}
	}
	floors[0].Name = "changed"
	if reg.Lowest().Name != "G" {
		t.Errorf("Floors() leaked internal storage")
	}
}

func TestRegistryOffset(t *testing.T) {
	reg, err := NewRegistry(-2, 5, "B2")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Lowest().Number != -2 || reg.Highest().Number != 2 {
		t.Errorf("range = [%d, %d], expected [-2, 2]", reg.Lowest().Number, reg.Highest().Number)
	}
	if !reg.Contains(0) || reg.Contains(3) {
		t.Errorf("Contains gives wrong answer for offset registry")
	}
	if _, err := NewRegistry(0, 0, ""); err == nil {
		t.Errorf("expected error for empty registry")
	}
}

func TestJobTransitions(t *testing.T) {
	job := NewJob(Floor{Number: 3})
	if job.Status != Pending {
		t.Fatalf("new job status = %s, expected pending", job.Status)
	}
	if err := job.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := job.Start(); err != nil {
		t.Errorf("second Start should be a no-op, got %v", err)
	}
	if err := job.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := job.Start(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Start on completed job error = %v, expected ErrIllegalTransition", err)
	}
	if err := job.Complete(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Complete on completed job error = %v, expected ErrIllegalTransition", err)
	}
}

func TestJobCompleteFromPendingPassesInProgress(t *testing.T) {
	job := NewJob(Floor{Number: 0})
	if err := job.advance(Completed); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("direct pending -> completed error = %v, expected ErrIllegalTransition", err)
	}
	if err := job.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !job.Done() {
		t.Errorf("job should be completed")
	}
}

func TestTripDropOffNeedsPickUp(t *testing.T) {
	trip := NewTrip(0, Floor{Number: 1}, Floor{Number: 4})
	if err := trip.CompleteDropOff(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("CompleteDropOff before pickup error = %v, expected ErrIllegalTransition", err)
	}
	if trip.DropOff.Status != Pending {
		t.Errorf("dropoff status changed to %s", trip.DropOff.Status)
	}
	if leg := trip.ActiveLeg(); leg != &trip.PickUp {
		t.Errorf("active leg should be the pickup")
	}
	if err := trip.PickUp.Complete(); err != nil {
		t.Fatalf("pickup Complete: %v", err)
	}
	if leg := trip.ActiveLeg(); leg != &trip.DropOff {
		t.Errorf("active leg should be the dropoff")
	}
	if err := trip.CompleteDropOff(); err != nil {
		t.Fatalf("CompleteDropOff: %v", err)
	}
	if !trip.Done() || trip.Waiting() {
		t.Errorf("trip should be done")
	}
}

func TestStatusText(t *testing.T) {
	cases := []struct {
		status    Status
		text      string
		direction int
	}{
		{Idle, "idle", 0},
		{MovingUp, "moving up", 1},
		{MovingDown, "moving down", -1},
	}
	for _, c := range cases {
		b, err := c.status.MarshalText()
		if err != nil || string(b) != c.text {
			t.Errorf("MarshalText(%d) = %q, %v; expected %q", c.status, b, err, c.text)
		}
		var back Status
		if err := back.UnmarshalText([]byte(c.text)); err != nil || back != c.status {
			t.Errorf("UnmarshalText(%q) = %v, %v", c.text, back, err)
		}
		if c.status.Direction() != c.direction {
			t.Errorf("%s.Direction() = %d, expected %d", c.status, c.status.Direction(), c.direction)
		}
		if StatusFor(c.direction) != c.status {
			t.Errorf("StatusFor(%d) = %s, expected %s", c.direction, StatusFor(c.direction), c.status)
		}
	}
	if _, err := Status(9).MarshalText(); err == nil {
		t.Errorf("expected error marshalling unknown status")
	}
}

func TestElevatorJSON(t *testing.T) {
	e := ElevatorInit(2, Floor{Number: 0, Name: "G"})
	e.Trips = append(e.Trips, NewTrip(2, Floor{Number: 0, Name: "G"}, Floor{Number: 3}))
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if generic["status"] != "idle" {
		t.Errorf("status = %v, expected idle", generic["status"])
	}
	trips := generic["trips"].([]interface{})
	pickup := trips[0].(map[string]interface{})["pickup"].(map[string]interface{})
	if pickup["status"] != "pending" {
		t.Errorf("pickup status = %v, expected pending", pickup["status"])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e := ElevatorInit(0, Floor{Number: 0})
	e.Trips = append(e.Trips, NewTrip(0, Floor{Number: 1}, Floor{Number: 2}))
	c, err := e.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	c.Trips[0].PickUp.Status = Completed
	c.CurrentFloor = Floor{Number: 5}
	if e.Trips[0].PickUp.Status != Pending || e.CurrentFloor.Number != 0 {
		t.Errorf("mutating clone changed original: %+v", e)
	}
	if c.Trips[0].ID != e.Trips[0].ID {
		t.Errorf("clone lost trip id")
	}
}

func TestRemoveTripAndFinalStop(t *testing.T) {
	e := ElevatorInit(0, Floor{Number: 0})
	if _, ok := e.FinalStop(); ok {
		t.Errorf("empty elevator has no final stop")
	}
	a := NewTrip(0, Floor{Number: 1}, Floor{Number: 2})
	b := NewTrip(0, Floor{Number: 3}, Floor{Number: 6})
	e.Trips = append(e.Trips, a, b)
	if stop, _ := e.FinalStop(); stop.Number != 6 {
		t.Errorf("FinalStop = %d, expected 6", stop.Number)
	}
	if !e.RemoveTrip(a.ID) || len(e.Trips) != 1 || e.Trips[0].ID != b.ID {
		t.Errorf("RemoveTrip left %v", e.Trips)
	}
	if e.RemoveTrip(a.ID) {
		t.Errorf("removing twice should report false")
	}
}

// Package elevio mirrors engine state onto indicator outputs: one panel per
// car plus the hall call lamps, refreshed after every tick.
package elevio

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"elevatorsim/elevator"
	"elevatorsim/fsm"
)

type Panel struct {
	mu      sync.RWMutex
	outputs []ElevOutputDevice
	hall    map[int]*HallLight
	tick    uint64
}

func NewPanel() *Panel {
	return &Panel{hall: make(map[int]*HallLight)}
}

func DirnFor(s elevator.Status) Dirn {
	return Dirn(s.Direction())
}

// Observe refreshes the panel from a committed tick. It has the shape of an
// engine observer.
func (p *Panel) Observe(report fsm.Report, elevators []elevator.Elevator) {
	stopped := make(map[int]bool)
	for _, ev := range report.Events {
		if ev.Kind == fsm.EventPickedUp || ev.Kind == fsm.EventDroppedOff {
			stopped[ev.ElevatorID] = true
		}
	}

	outputs := make([]ElevOutputDevice, len(elevators))
	hall := make(map[int]*HallLight)
	for i, e := range elevators {
		out := ElevOutputDevice{
			ElevatorID:     e.ID,
			FloorIndicator: e.CurrentFloor.Number,
			MotorDirection: DirnFor(e.Status),
			DoorLight:      stopped[e.ID],
			CabLights:      []int{},
		}
		for _, trip := range e.Trips {
			from, to := trip.PickUp.Target.Number, trip.DropOff.Target.Number
			if !trip.Waiting() {
				out.CabLights = appendUnique(out.CabLights, to)
				continue
			}
			light, ok := hall[from]
			if !ok {
				light = &HallLight{Floor: from}
				hall[from] = light
			}
			if to > from {
				light.Up = true
			} else {
				light.Down = true
			}
		}
		sort.Ints(out.CabLights)
		outputs[i] = out
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputs = outputs
	p.hall = hall
	p.tick = report.Tick
}

func appendUnique(floors []int, floor int) []int {
	for _, f := range floors {
		if f == floor {
			return floors
		}
	}
	return append(floors, floor)
}

func (p *Panel) Outputs() []ElevOutputDevice {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ElevOutputDevice, len(p.outputs))
	for i, o := range p.outputs {
		o.CabLights = append([]int(nil), o.CabLights...)
		out[i] = o
	}
	return out
}

// HallLights returns the lit hall lamps, lowest floor first.
func (p *Panel) HallLights() []HallLight {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]HallLight, 0, len(p.hall))
	for _, light := range p.hall {
		out = append(out, *light)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Floor < out[j].Floor })
	return out
}

// String renders one line per car, e.g. "#0 [3] D_Up door:off cab:[5]".
func (p *Panel) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %d", p.Tick())
	for _, o := range p.Outputs() {
		door := "off"
		if o.DoorLight {
			door = "on"
		}
		fmt.Fprintf(&b, "\n#%d [%d] %s door:%s cab:%v", o.ElevatorID, o.FloorIndicator, DirnToString(o.MotorDirection), door, o.CabLights)
	}
	return b.String()
}

func (p *Panel) Tick() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tick
}

func DirnToString(d Dirn) string {
	switch d {
	case D_Up:
		return "D_Up"
	case D_Down:
		return "D_Down"
	case D_Stop:
		return "D_Stop"
	default:
		return "D_UNDEFINED"
	}
}

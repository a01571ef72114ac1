package fsm

import (
	"sync"

	"github.com/rs/zerolog"

	"elevatorsim/elevator"
	"elevatorsim/fleet"
)

// Report is the outcome of one committed tick.
type Report struct {
	Tick   uint64  `json:"tick"`
	Events []Event `json:"events"`
}

type stepResult struct {
	ran    bool
	next   elevator.Elevator
	events []Event
	err    error
}

// Scheduler is the tick state machine for the whole fleet.
type Scheduler struct {
	fleet *fleet.Fleet
	log   zerolog.Logger
	ticks uint64
}

func NewScheduler(f *fleet.Fleet, log *zerolog.Logger) *Scheduler {
	return &Scheduler{
		fleet: f,
		log:   log.With().Str("component", "fsm").Logger(),
	}
}

func step(e elevator.Elevator, registry *elevator.Registry) stepResult {
	next, err := e.Clone()
	if err != nil {
		return stepResult{ran: true, err: err}
	}
	events, err := Step(&next, registry)
	return stepResult{ran: true, next: next, events: events, err: err}
}

// Tick advances every elevator with pending work by one step. All next
// states are computed from the same fleet state and committed together; an
// elevator whose step fails is logged and left as it was.
func (s *Scheduler) Tick() Report {
	var report Report
	registry := s.fleet.Registry()

	s.fleet.Update(func(elevators []elevator.Elevator) error {
		s.ticks++
		report.Tick = s.ticks

		results := make([]stepResult, len(elevators))
		var wg sync.WaitGroup
		for i := range elevators {
			if !elevators[i].HasTrips() {
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = step(elevators[i], registry)
			}(i)
		}
		wg.Wait()

		for i, r := range results {
			if !r.ran {
				continue
			}
			if r.err != nil {
				s.log.Error().Err(r.err).Int("elevator", elevators[i].ID).Uint64("tick", report.Tick).
					Msg("Skipping elevator for this tick")
				report.Events = append(report.Events, Event{
					ElevatorID: elevators[i].ID,
					Kind:       EventSkipped,
					Floor:      elevators[i].CurrentFloor.Number,
					Status:     elevators[i].Status,
					Error:      r.err.Error(),
				})
				continue
			}
			elevators[i] = r.next
			report.Events = append(report.Events, r.events...)
		}
		return nil
	})

	for _, ev := range report.Events {
		s.logEvent(ev)
	}
	return report
}

// Ticks is the number of ticks committed so far.
func (s *Scheduler) Ticks() uint64 {
	var n uint64
	s.fleet.View(func([]elevator.Elevator) { n = s.ticks })
	return n
}

func (s *Scheduler) logEvent(ev Event) {
	switch ev.Kind {
	case EventMoved:
		from := ev.Floor - ev.Status.Direction()
		s.log.Debug().Int("elevator", ev.ElevatorID).
			Msgf("Elevator %d: moving %s from %d to %s on %d", ev.ElevatorID, direction(ev.Status), from, ev.Leg, ev.Target)
	case EventPickedUp:
		s.log.Info().Int("elevator", ev.ElevatorID).
			Msgf("Elevator %d: completed pickup on %d", ev.ElevatorID, ev.Floor)
	case EventDroppedOff:
		s.log.Info().Int("elevator", ev.ElevatorID).
			Msgf("Elevator %d: completed drop off on %d", ev.ElevatorID, ev.Floor)
	case EventIdle:
		s.log.Info().Int("elevator", ev.ElevatorID).
			Msgf("Elevator %d: setting to idle", ev.ElevatorID)
	}
}

func direction(s elevator.Status) string {
	if s == elevator.MovingDown {
		return "down"
	}
	return "up"
}

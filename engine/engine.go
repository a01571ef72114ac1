// Package engine is the in-process surface of the simulation: it owns the
// fleet, admits requests and drives the clock.
package engine

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"elevatorsim/config"
	"elevatorsim/dispatch"
	"elevatorsim/elevator"
	"elevatorsim/fleet"
	"elevatorsim/fsm"
	"elevatorsim/timer"
)

// Observer is called after every committed tick with the report and a
// snapshot of the fleet taken right after the commit.
type Observer func(report fsm.Report, elevators []elevator.Elevator)

type Engine struct {
	cfg        config.Config
	log        zerolog.Logger
	fleet      *fleet.Fleet
	dispatcher *dispatch.Dispatcher
	scheduler  *fsm.Scheduler

	// tickMu orders ticks so observers see reports in tick order.
	tickMu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

func New(cfg config.Config, log *zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry, err := elevator.NewRegistry(cfg.LowestFloor, cfg.Floors, cfg.GroundName)
	if err != nil {
		return nil, errors.Wrap(err, "build floors")
	}
	f, err := fleet.New(registry, cfg.Elevators)
	if err != nil {
		return nil, errors.Wrap(err, "build fleet")
	}

	log.Info().Int("floors", cfg.Floors).Int("elevators", cfg.Elevators).
		Str("tick", cfg.TickInterval.String()).Msg("Engine initialized")

	return &Engine{
		cfg:        cfg,
		log:        log.With().Str("component", "engine").Logger(),
		fleet:      f,
		dispatcher: dispatch.New(f, log),
		scheduler:  fsm.NewScheduler(f, log),
		observers:  make(map[int]Observer),
	}, nil
}

func (e *Engine) SubmitRequest(from, to int) (dispatch.Receipt, error) {
	return e.dispatcher.Submit(from, to)
}

// ListElevators is a read-only snapshot. Calling it never changes state.
func (e *Engine) ListElevators() []elevator.Elevator {
	snapshot, err := e.fleet.Snapshot()
	if err != nil {
		e.log.Error().Err(err).Msg("Failed to snapshot fleet")
		return []elevator.Elevator{}
	}
	return snapshot
}

func (e *Engine) Elevator(id int) (elevator.Elevator, error) {
	return e.fleet.Elevator(id)
}

func (e *Engine) ListFloors() []elevator.Floor {
	return e.fleet.Registry().Floors()
}

func (e *Engine) Requests() []dispatch.RequestRecord {
	return e.dispatcher.Requests()
}

// Idle reports whether all work is done.
func (e *Engine) Idle() bool {
	return e.fleet.Idle()
}

// Tick advances the simulation by one step and notifies observers.
func (e *Engine) Tick() fsm.Report {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	report := e.scheduler.Tick()

	e.obsMu.Lock()
	observers := make([]Observer, 0, len(e.observers))
	for id := 0; id < e.nextObs; id++ {
		if obs, ok := e.observers[id]; ok {
			observers = append(observers, obs)
		}
	}
	e.obsMu.Unlock()

	if len(observers) > 0 {
		snapshot := e.ListElevators()
		for _, obs := range observers {
			obs(report, snapshot)
		}
	}
	return report
}

// Subscribe registers an observer. The returned function removes it.
func (e *Engine) Subscribe(obs Observer) (cancel func()) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = obs
	return func() {
		e.obsMu.Lock()
		defer e.obsMu.Unlock()
		delete(e.observers, id)
	}
}

// Run drives Tick from a real clock until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker, err := timer.New(e.cfg.TickInterval)
	if err != nil {
		return err
	}
	e.log.Info().Msg("Clock started")
	err = ticker.Run(ctx, func() { e.Tick() })
	e.log.Info().Msg("Clock stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// RunUntilIdle ticks until every elevator is idle, at most maxTicks times, and
// returns the number of ticks taken.
func (e *Engine) RunUntilIdle(maxTicks int) (int, error) {
	for n := 0; n < maxTicks; n++ {
		if e.Idle() {
			return n, nil
		}
		e.Tick()
	}
	if e.Idle() {
		return maxTicks, nil
	}
	return maxTicks, errors.Errorf("fleet still busy after %d ticks", maxTicks)
}

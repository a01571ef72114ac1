package elevator

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type JobStatus int

const (
	Pending JobStatus = iota
	InProgress
	Completed
)

// Only forward single steps are legal. Pending -> Completed must pass
// through InProgress.
var jobTransitions = map[JobStatus]JobStatus{
	Pending:    InProgress,
	InProgress: Completed,
}

func (s JobStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	default:
		return "undefined"
	}
}

func (s JobStatus) MarshalText() ([]byte, error) {
	if s < Pending || s > Completed {
		return nil, errors.Errorf("unknown job status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *JobStatus) UnmarshalText(text []byte) error {
	for _, candidate := range []JobStatus{Pending, InProgress, Completed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return errors.Errorf("unknown job status %q", string(text))
}

// Job is one leg of a trip.
type Job struct {
	ID     uuid.UUID `json:"id"`
	Target Floor     `json:"targetFloor"`
	Status JobStatus `json:"status"`
}

func NewJob(target Floor) Job {
	return Job{ID: uuid.New(), Target: target, Status: Pending}
}

func (j *Job) advance(next JobStatus) error {
	if to, ok := jobTransitions[j.Status]; !ok || to != next {
		return errors.Wrapf(ErrIllegalTransition, "job %s: %s -> %s", j.ID, j.Status, next)
	}
	j.Status = next
	return nil
}

// Start marks the job InProgress. Starting a job that is already underway is
// a no-op.
func (j *Job) Start() error {
	if j.Status == InProgress {
		return nil
	}
	return j.advance(InProgress)
}

// Complete walks the job forward to Completed, passing through InProgress
// when the job is still Pending.
func (j *Job) Complete() error {
	if j.Status == Pending {
		if err := j.advance(InProgress); err != nil {
			return err
		}
	}
	return j.advance(Completed)
}

func (j Job) Done() bool { return j.Status == Completed }

// Trip is a pickup followed by a dropoff, owned by exactly one elevator.
type Trip struct {
	ID         uuid.UUID `json:"id"`
	ElevatorID int       `json:"elevatorId"`
	PickUp     Job       `json:"pickup"`
	DropOff    Job       `json:"dropOff"`
}

func NewTrip(elevatorID int, from, to Floor) Trip {
	return Trip{
		ID:         uuid.New(),
		ElevatorID: elevatorID,
		PickUp:     NewJob(from),
		DropOff:    NewJob(to),
	}
}

// ActiveLeg is the leg the elevator is currently working toward.
func (t *Trip) ActiveLeg() *Job {
	if !t.PickUp.Done() {
		return &t.PickUp
	}
	return &t.DropOff
}

func (t *Trip) CompleteDropOff() error {
	if !t.PickUp.Done() {
		return errors.Wrapf(ErrIllegalTransition, "trip %s: dropoff before pickup", t.ID)
	}
	return t.DropOff.Complete()
}

func (t Trip) Done() bool { return t.PickUp.Done() && t.DropOff.Done() }

// Waiting reports whether the rider has not been picked up yet.
func (t Trip) Waiting() bool { return !t.PickUp.Done() }

func (t Trip) SameRoute(from, to int) bool {
	return t.PickUp.Target.Number == from && t.DropOff.Target.Number == to
}

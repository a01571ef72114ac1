package elevator

import (
	"strconv"

	"github.com/pkg/errors"
)

type Floor struct {
	Number int    `json:"number"`
	Name   string `json:"name,omitempty"`
}

func (f Floor) String() string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.Itoa(f.Number)
}

// Registry is the immutable catalogue of floors. It is safe to share between
// goroutines without locking once NewRegistry returns.
type Registry struct {
	floors []Floor
	lowest int
}

// NewRegistry builds the contiguous range [lowest, lowest+count). groundName,
// if set, is attached to the lowest floor.
func NewRegistry(lowest, count int, groundName string) (*Registry, error) {
	if count < 1 {
		return nil, errors.Errorf("registry needs at least one floor, got %d", count)
	}
	floors := make([]Floor, count)
	for i := range floors {
		floors[i] = Floor{Number: lowest + i}
	}
	floors[0].Name = groundName
	return &Registry{floors: floors, lowest: lowest}, nil
}

func (r *Registry) FloorByNumber(n int) (Floor, error) {
	if !r.Contains(n) {
		return Floor{}, errors.Wrapf(ErrFloorNotFound, "floor %d", n)
	}
	return r.floors[n-r.lowest], nil
}

func (r *Registry) Contains(n int) bool {
	return n >= r.lowest && n < r.lowest+len(r.floors)
}

// Floors returns a copy, ascending by number.
func (r *Registry) Floors() []Floor {
	out := make([]Floor, len(r.floors))
	copy(out, r.floors)
	return out
}

func (r *Registry) Lowest() Floor  { return r.floors[0] }
func (r *Registry) Highest() Floor { return r.floors[len(r.floors)-1] }
func (r *Registry) Len() int       { return len(r.floors) }

package elevator

import "github.com/pkg/errors"

var (
	ErrFloorNotFound      = errors.New("floor doesn't exist")
	ErrElevatorNotFound   = errors.New("elevator doesn't exist")
	ErrDuplicateRequest   = errors.New("identical request already pending")
	ErrNoTripsForElevator = errors.New("no trips found for elevator")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrIllegalTransition  = errors.New("illegal job status transition")
)

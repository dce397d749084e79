package request

import "fmt"

// requestState implements the state pattern for the request lifecycle.
// Only pending requests can move; resolved ones are terminal.
type requestState interface {
	Status() Status
	resolve(to Status) (requestState, error)
}

func stateOf(s Status) requestState {
	switch s {
	case StatusAccepted:
		return acceptedState{}
	case StatusRejected:
		return rejectedState{}
	default:
		return pendingState{}
	}
}

type pendingState struct{}

func (pendingState) Status() Status { return StatusPending }

func (pendingState) resolve(to Status) (requestState, error) {
	switch to {
	case StatusAccepted:
		return acceptedState{}, nil
	case StatusRejected:
		return rejectedState{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
}

type acceptedState struct{}

func (acceptedState) Status() Status { return StatusAccepted }

func (acceptedState) resolve(Status) (requestState, error) {
	return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, StatusAccepted)
}

type rejectedState struct{}

func (rejectedState) Status() Status { return StatusRejected }

func (rejectedState) resolve(Status) (requestState, error) {
	return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, StatusRejected)
}

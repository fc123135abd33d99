package payment

import (
	"fmt"

	"github.com/pkg/errors"
)

type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

var ErrInvalidTransition = errors.New("invalid checkout state transition")

var transitions = map[State][]State{
	StateIdle:       {StateProcessing},
	StateProcessing: {StateSuccess, StateFailed, StateIdle},
	StateFailed:     {StateIdle},
	StateSuccess:    {},
}

// CanTransition reports whether `from -> to` is allowed.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition returns `to`, or ErrInvalidTransition.
func Transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, errors.Wrap(ErrInvalidTransition, fmt.Sprintf("%s -> %s", from, to))
	}
	return to, nil
}

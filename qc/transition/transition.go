// Package transition implements the Transition/TransitionTable/
// TransitionCollection trio: the classically-simulable, pre-decomposed
// representation of a noisy channel that the simulator samples from on every
// gate application.
package transition

import (
	"errors"
	"fmt"

	"github.com/inmzhang/leaky/qc/leakage"
)

// NoPauli marks a Transition with no attached Pauli twirl (every qubit in it
// is of type U, D or L).
const NoPauli = -1

// Transition is a single (initial, final, probability, pauli) row entry.
type Transition struct {
	Initial     leakage.Status
	Final       leakage.Status
	Probability float64
	// PauliIndex enumerates the tensor-product Pauli over the transition's
	// R-qubits (base-4, MSB-first; see DecodePauliDigits), or NoPauli.
	PauliIndex int
}

// RemainCount returns how many qubits in the transition are of type Remain,
// i.e. how many digits PauliIndex is expected to encode.
func (t Transition) RemainCount() int {
	n := 0
	for i := range t.Initial {
		if leakage.Classify(t.Initial[i], t.Final[i]) == leakage.Remain {
			n++
		}
	}
	return n
}

// ErrMalformedChannel is the sentinel wrapped by every TransitionTable
// validation failure.
var ErrMalformedChannel = errors.New("transition: malformed channel")

// MalformedChannelError carries the specific reason a channel failed
// validation, while still matching errors.Is(err, ErrMalformedChannel).
type MalformedChannelError struct {
	Reason string
}

func (e *MalformedChannelError) Error() string {
	return fmt.Sprintf("transition: malformed channel: %s", e.Reason)
}

func (e *MalformedChannelError) Unwrap() error {
	return ErrMalformedChannel
}

package transition

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/inmzhang/leaky/qc/leakage"
)

// TransitionTable maps an initial leakage status to the list of Transitions
// a gate may sample into. It is built once by the decomposer (or by hand, for
// tests and forced-trajectory fixtures) and is read-only for the lifetime of
// a shot, so it is safe to share across shots and goroutines.
type TransitionTable struct {
	rows map[leakage.Key][]Transition
	keys []leakage.Key // insertion order, for deterministic iteration
}

// NewTransitionTable returns an empty table.
func NewTransitionTable() *TransitionTable {
	return &TransitionTable{rows: make(map[leakage.Key][]Transition)}
}

// AddRow appends transitions to the row for the given initial status,
// creating the row if it does not exist yet.
func (t *TransitionTable) AddRow(initial leakage.Status, transitions []Transition) {
	key := initial.Key()
	if _, ok := t.rows[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.rows[key] = append(t.rows[key], transitions...)
}

// Row returns the transitions registered for the given initial status, or
// nil if none were registered.
func (t *TransitionTable) Row(initial leakage.Status) []Transition {
	return t.rows[initial.Key()]
}

// InitialStatuses returns every initial status with a registered row, in
// insertion order.
func (t *TransitionTable) InitialStatuses() []leakage.Status {
	out := make([]leakage.Status, len(t.keys))
	for i, k := range t.keys {
		out[i] = k.Status()
	}
	return out
}

// Probability returns the probability of a specific (initial, final,
// pauli_index) transition, or 0 if no such row entry exists.
func (t *TransitionTable) Probability(initial, final leakage.Status, pauliIndex int) float64 {
	for _, tr := range t.rows[initial.Key()] {
		if tr.Final.Equal(final) && tr.PauliIndex == pauliIndex {
			return tr.Probability
		}
	}
	return 0
}

// Sample draws a Transition from the row for the given initial status,
// renormalizing first if the row's probabilities don't sum exactly to 1.
func (t *TransitionTable) Sample(initial leakage.Status, rng *rand.Rand) (Transition, error) {
	row := t.rows[initial.Key()]
	if len(row) == 0 {
		return Transition{}, fmt.Errorf("transition: no row registered for status %v", initial)
	}
	sum := 0.0
	for _, tr := range row {
		sum += tr.Probability
	}
	if sum <= 0 {
		return Transition{}, fmt.Errorf("transition: row for status %v sums to %g, cannot sample", initial, sum)
	}
	draw := rng.Float64() * sum
	running := 0.0
	for _, tr := range row {
		running += tr.Probability
		if draw <= running {
			return tr, nil
		}
	}
	return row[len(row)-1], nil
}

// Validate is the safety check: every row's probabilities must sum to 1
// within 1e-6, and a transition's pauli attachment must be consistent with
// its count of Remain-type qubits (no pauli where there is no R-qubit to
// twirl, and a pauli in-range where there is).
func (t *TransitionTable) Validate() error {
	for _, key := range t.keys {
		row := t.rows[key]
		sum := 0.0
		for _, tr := range row {
			sum += tr.Probability
			if err := validateShape(tr); err != nil {
				return err
			}
		}
		if math.Abs(sum-1) > 1e-6 {
			return &MalformedChannelError{
				Reason: fmt.Sprintf("row sum for status %v is %g, want 1", key.Status(), sum),
			}
		}
	}
	return nil
}

func validateShape(tr Transition) error {
	r := tr.RemainCount()
	switch {
	case r == 0 && tr.PauliIndex != NoPauli:
		return &MalformedChannelError{
			Reason: fmt.Sprintf("transition %v->%v has no remain-type qubits but carries pauli_index %d", tr.Initial, tr.Final, tr.PauliIndex),
		}
	case r > 0 && tr.PauliIndex == NoPauli:
		return &MalformedChannelError{
			Reason: fmt.Sprintf("transition %v->%v has %d remain-type qubit(s) but no pauli_index", tr.Initial, tr.Final, r),
		}
	case r > 0:
		maxIndex := 1 << uint(2*r)
		if tr.PauliIndex < 0 || tr.PauliIndex >= maxIndex {
			return &MalformedChannelError{
				Reason: fmt.Sprintf("transition %v->%v pauli_index %d out of range for %d remain-type qubit(s)", tr.Initial, tr.Final, tr.PauliIndex, r),
			}
		}
	}
	return nil
}

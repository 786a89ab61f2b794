package transition

import "github.com/inmzhang/leaky/qc/leakage"

// Guard is a predicate consulted by TransitionCollection.Lookup, given the
// current leakage status and the classical control-register values for the
// qubit group being dispatched. Represented as a tagged sum of concrete
// types rather than a bare func, so collections stay comparable and
// introspectable.
type Guard interface {
	Evaluate(status leakage.Status, singleQubitControl, twoQubitControl int) bool
}

// AlwaysTrue matches unconditionally; it is equivalent to a nil guard.
type AlwaysTrue struct{}

func (AlwaysTrue) Evaluate(leakage.Status, int, int) bool { return true }

// SingleQubitControlEquals matches when the single-qubit control register
// for the dispatched qubit equals Value.
type SingleQubitControlEquals struct{ Value int }

func (g SingleQubitControlEquals) Evaluate(_ leakage.Status, sqCtrl, _ int) bool {
	return sqCtrl == g.Value
}

// TwoQubitControlEquals matches when the two-qubit control register for the
// dispatched pair equals Value.
type TwoQubitControlEquals struct{ Value int }

func (g TwoQubitControlEquals) Evaluate(_ leakage.Status, _, dqCtrl int) bool {
	return dqCtrl == g.Value
}

// StatusEquals matches when the current leakage status of the dispatched
// group equals Status exactly.
type StatusEquals struct{ Status leakage.Status }

func (g StatusEquals) Evaluate(status leakage.Status, _, _ int) bool {
	return status.Equal(g.Status)
}

// Composite is the conjunction (AND) of its sub-guards.
type Composite struct{ Guards []Guard }

func (g Composite) Evaluate(status leakage.Status, sqCtrl, dqCtrl int) bool {
	for _, sub := range g.Guards {
		if !sub.Evaluate(status, sqCtrl, dqCtrl) {
			return false
		}
	}
	return true
}

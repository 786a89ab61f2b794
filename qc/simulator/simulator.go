// Package simulator implements the hybrid tableau+leakage single-shot
// stepper: it tracks a StatusVec alongside an external stabilizer engine,
// samples transitions from a TransitionCollection on every gate, and
// produces a measurement record under one of the readout strategies.
package simulator

import (
	"fmt"
	"math/rand"

	"github.com/inmzhang/leaky/internal/logger"
	"github.com/inmzhang/leaky/qc/engine"
	"github.com/inmzhang/leaky/qc/leakage"
	"github.com/inmzhang/leaky/qc/program"
	"github.com/inmzhang/leaky/qc/readout"
	"github.com/inmzhang/leaky/qc/transition"
)

// Simulator is a single-shot stepper. It is not safe for concurrent use: a
// shot is strictly sequential, and the Sampler is the only component that
// parallelizes across independent Simulator instances.
type Simulator struct {
	log    *logger.Logger
	engine engine.StabilizerEngine
	rng    *rand.Rand

	numQubits   int
	status      *leakage.StatusVec
	transitions *transition.TransitionCollection

	measurementStatus []int // leakage label captured at measurement time, in measurement order

	singleQubitControls map[int]int
	twoQubitControls    map[[2]int]int
}

// New constructs a Simulator over numQubits qubits, backed by eng (already
// owned by the Simulator: its qubit count and seed are set here). collection
// may be nil, meaning no noise is ever sampled.
func New(numQubits int, eng engine.StabilizerEngine, collection *transition.TransitionCollection, seed int64, log *logger.Logger) (*Simulator, error) {
	if eng == nil {
		return nil, fmt.Errorf("simulator: engine must not be nil")
	}
	if err := eng.SetNumQubits(numQubits); err != nil {
		return nil, fmt.Errorf("simulator: initializing engine: %w", err)
	}
	eng.Seed(seed)
	if collection == nil {
		collection = transition.NewTransitionCollection()
	}
	if log == nil {
		log = logger.NewLogger(logger.LoggerOptions{})
	}
	return &Simulator{
		log:         log.SpawnForService("simulator"),
		engine:      eng,
		rng:         rand.New(rand.NewSource(seed)),
		numQubits:   numQubits,
		status:      leakage.NewStatusVec(numQubits),
		transitions: collection,
	}, nil
}

// SetSingleQubitTransitionControls merges updates into the single-qubit
// classical control register map consulted by guards.
func (s *Simulator) SetSingleQubitTransitionControls(updates map[int]int) {
	if s.singleQubitControls == nil {
		s.singleQubitControls = make(map[int]int, len(updates))
	}
	for k, v := range updates {
		s.singleQubitControls[k] = v
	}
}

// SetTwoQubitTransitionControls merges updates into the two-qubit classical
// control register map consulted by guards.
func (s *Simulator) SetTwoQubitTransitionControls(updates map[[2]int]int) {
	if s.twoQubitControls == nil {
		s.twoQubitControls = make(map[[2]int]int, len(updates))
	}
	for k, v := range updates {
		s.twoQubitControls[k] = v
	}
}

// CurrentStatus returns the current leakage status of targets, without
// performing a measurement.
func (s *Simulator) CurrentStatus(targets []int) leakage.Status {
	return s.status.Get(targets)
}

// Do dispatches one instruction. addNoise=false suppresses transition
// sampling for this call (used by tests that want to isolate a forced
// trajectory from background noise on a later gate).
func (s *Simulator) Do(name string, targets []int, args []float64, addNoise bool) error {
	switch name {
	case "M", "MZ":
		_, err := s.Measure(targets)
		return err
	case "R", "RZ":
		return s.Reset(targets)
	case "MR", "MRZ":
		if _, err := s.Measure(targets); err != nil {
			return err
		}
		return s.Reset(targets)
	}
	if unsupportedBasisGates[name] {
		return fmt.Errorf("simulator: gate %q: %w", name, ErrUnsupportedBasis)
	}

	for _, group := range partitionTargets(name, targets) {
		if err := s.doGroup(name, group, args, addNoise); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) doGroup(name string, group []int, args []float64, addNoise bool) error {
	status := s.status.Get(group)
	table, ok := s.transitions.Lookup(name, status, s.singleQubitControl(group), s.twoQubitControl(group))

	// A Clifford gate on a leaked qubit is a no-op on the engine: leakage is
	// tracked separately and the engine is only defined on the
	// computational subspace.
	if status.AllZero() {
		if err := s.engine.Do(name, group, args); err != nil {
			return fmt.Errorf("simulator: dispatching %q: %w", name, err)
		}
	}

	if ok && addNoise {
		tr, err := table.Sample(status, s.rng)
		if err != nil {
			return fmt.Errorf("simulator: sampling transition for %q: %w", name, err)
		}
		if err := s.applyTransition(group, tr); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) singleQubitControl(group []int) int {
	if len(group) != 1 {
		return 0
	}
	return s.singleQubitControls[group[0]]
}

func (s *Simulator) twoQubitControl(group []int) int {
	if len(group) != 2 {
		return 0
	}
	return s.twoQubitControls[[2]int{group[0], group[1]}]
}

// Measure measures targets in the Z basis, capturing each target's
// pre-measurement leakage label before invoking the engine. flipProbability
// is an optional single value forwarded to the engine as a classical readout
// bit-flip probability.
func (s *Simulator) Measure(targets []int, flipProbability ...float64) ([]bool, error) {
	p := optionalFloat(flipProbability)
	results := make([]bool, len(targets))
	for i, t := range targets {
		label := s.status.Get([]int{t})[0]
		s.measurementStatus = append(s.measurementStatus, label)
		m, err := s.engine.MeasureZ(t, p)
		if err != nil {
			return nil, fmt.Errorf("simulator: measuring qubit %d: %w", t, err)
		}
		results[i] = m
	}
	return results, nil
}

// Reset clears targets' leakage labels to 0 and resets them on the engine.
// flipProbability is an optional single value forwarded to the engine as a
// classical bit-flip probability applied after the reset.
func (s *Simulator) Reset(targets []int, flipProbability ...float64) error {
	p := optionalFloat(flipProbability)
	s.status.Reset(targets)
	if err := s.engine.ResetZ(targets, p); err != nil {
		return fmt.Errorf("simulator: resetting %v: %w", targets, err)
	}
	return nil
}

func optionalFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

// CurrentMeasurementRecord zips the engine's boolean measurement record with
// the captured leakage labels and projects each pair under strategy.
func (s *Simulator) CurrentMeasurementRecord(strategy readout.Strategy) []int {
	record := s.engine.CurrentMeasurementRecord()
	out := make([]int, len(record))
	for i, m := range record {
		status := 0
		if i < len(s.measurementStatus) {
			status = s.measurementStatus[i]
		}
		out[i] = strategy.Project(m, status, s.rng)
	}
	return out
}

// applyTransition applies a sampled Transition's per-qubit effect to group:
// U/D qubits get an X-error-then-reset (or reset-then-X-error) pair on the
// engine to realize the leakage jump, L qubits need no engine action, and R
// qubits accumulate into a single Pauli twirl applied after the loop.
func (s *Simulator) applyTransition(group []int, tr transition.Transition) error {
	s.status.Set(group, tr.Final)

	var remainTargets []int
	for i, t := range group {
		switch leakage.Classify(tr.Initial[i], tr.Final[i]) {
		case leakage.Up:
			if err := s.engine.XError(t, 0.5); err != nil {
				return fmt.Errorf("simulator: applying leakage-up on qubit %d: %w", t, err)
			}
			if err := s.engine.ResetZ([]int{t}, 0); err != nil {
				return fmt.Errorf("simulator: applying leakage-up on qubit %d: %w", t, err)
			}
		case leakage.Down:
			if err := s.engine.ResetZ([]int{t}, 0); err != nil {
				return fmt.Errorf("simulator: applying leakage-down on qubit %d: %w", t, err)
			}
			if err := s.engine.XError(t, 0.5); err != nil {
				return fmt.Errorf("simulator: applying leakage-down on qubit %d: %w", t, err)
			}
		case leakage.Remain:
			remainTargets = append(remainTargets, t)
		case leakage.LeakToLeak:
			// already outside the computational subspace; nothing to do on the engine.
		}
	}

	if len(remainTargets) == 0 {
		return nil
	}
	if tr.PauliIndex == transition.NoPauli {
		return fmt.Errorf("simulator: %w: transition has %d remain-type qubits but no pauli index", ErrInternalConsistency, len(remainTargets))
	}
	digits := transition.DecodePauliDigits(tr.PauliIndex, len(remainTargets))
	for i, t := range remainTargets {
		if err := applyPauli(s.engine, t, digits[i]); err != nil {
			return fmt.Errorf("simulator: applying pauli twirl on qubit %d: %w", t, err)
		}
	}
	return nil
}

func applyPauli(eng engine.StabilizerEngine, target int, digit byte) error {
	switch digit {
	case 0:
		return nil
	case 1:
		return eng.Do("X", []int{target}, nil)
	case 2:
		return eng.Do("Y", []int{target}, nil)
	case 3:
		return eng.Do("Z", []int{target}, nil)
	}
	return nil
}

// DoProgram runs every instruction of p in order against this Simulator,
// applying remap (if non-nil) to every gate's targets.
func (s *Simulator) DoProgram(p *program.Program, remap map[int]int) error {
	if p.NumQubits != s.numQubits {
		return fmt.Errorf("simulator: program has %d qubits, simulator has %d: %w", p.NumQubits, s.numQubits, ErrQubitCountMismatch)
	}
	var walkErr error
	p.Each(remap, func(g program.Gate) {
		if walkErr != nil {
			return
		}
		walkErr = s.Do(g.Name, g.Targets, g.Args, true)
	})
	return walkErr
}

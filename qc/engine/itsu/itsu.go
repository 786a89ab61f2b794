// Package itsu adapts github.com/itsubaki/q's statevector simulator into a
// qc/engine.StabilizerEngine, the same wrapping style as the teacher's
// ItsuOneShotRunner: a thin switch over gate names driving the itsubaki/q
// API directly, with no intermediate circuit representation of its own.
package itsu

import (
	"fmt"
	"math/rand"

	"github.com/itsubaki/q"

	"github.com/inmzhang/leaky/internal/logger"
	"github.com/inmzhang/leaky/qc/engine"
)

// Engine is a qc/engine.StabilizerEngine backed by an itsubaki/q statevector
// register. It is a concrete, test-double-grade implementation of the
// contract: production deployments driving a genuine stabilizer tableau
// would satisfy the same interface with a dedicated tableau backend.
type Engine struct {
	log    *logger.Logger
	sim    *q.Q
	qubits []q.Qubit
	record []bool
	rng    *rand.Rand
}

var _ engine.StabilizerEngine = (*Engine)(nil)

// New returns an Engine with no qubits allocated; call SetNumQubits before
// use.
func New(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewLogger(logger.LoggerOptions{})
	}
	return &Engine{
		log: log.SpawnForService("itsu"),
		rng: rand.New(rand.NewSource(1)),
	}
}

func (e *Engine) SetNumQubits(numQubits int) error {
	if numQubits < 0 {
		return fmt.Errorf("itsu: invalid qubit count %d", numQubits)
	}
	e.sim = q.New()
	e.qubits = e.sim.ZeroWith(numQubits)
	e.record = nil
	return nil
}

func (e *Engine) Seed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

func (e *Engine) Do(gateName string, targets []int, args []float64) error {
	if err := e.checkTargets(gateName, targets); err != nil {
		return err
	}
	switch gateName {
	case "H":
		e.sim.H(e.qubits[targets[0]])
	case "X":
		e.sim.X(e.qubits[targets[0]])
	case "Y":
		e.sim.Y(e.qubits[targets[0]])
	case "Z":
		e.sim.Z(e.qubits[targets[0]])
	case "S":
		e.sim.S(e.qubits[targets[0]])
	case "CNOT", "CX":
		e.sim.CNOT(e.qubits[targets[0]], e.qubits[targets[1]])
	case "CZ":
		e.sim.CZ(e.qubits[targets[0]], e.qubits[targets[1]])
	case "SWAP":
		e.sim.Swap(e.qubits[targets[0]], e.qubits[targets[1]])
	default:
		return fmt.Errorf("itsu: unsupported gate %q", gateName)
	}
	return nil
}

func (e *Engine) checkTargets(gateName string, targets []int) error {
	for _, t := range targets {
		if t < 0 || t >= len(e.qubits) {
			return fmt.Errorf("itsu: gate %q: qubit index %d out of range [0,%d)", gateName, t, len(e.qubits))
		}
	}
	return nil
}

func (e *Engine) MeasureZ(target int, flipProbability float64) (bool, error) {
	if err := e.checkTargets("MEASURE_Z", []int{target}); err != nil {
		return false, err
	}
	result := e.sim.Measure(e.qubits[target]).IsOne()
	if flipProbability > 0 && e.rng.Float64() < flipProbability {
		result = !result
	}
	e.record = append(e.record, result)
	return result, nil
}

func (e *Engine) ResetZ(targets []int, flipProbability float64) error {
	if err := e.checkTargets("RESET_Z", targets); err != nil {
		return err
	}
	for _, t := range targets {
		if e.sim.Measure(e.qubits[t]).IsOne() {
			e.sim.X(e.qubits[t])
		}
		if flipProbability > 0 && e.rng.Float64() < flipProbability {
			e.sim.X(e.qubits[t])
		}
	}
	return nil
}

func (e *Engine) XError(target int, p float64) error {
	if err := e.checkTargets("X_ERROR", []int{target}); err != nil {
		return err
	}
	if p > 0 && e.rng.Float64() < p {
		e.sim.X(e.qubits[target])
	}
	return nil
}

func (e *Engine) CurrentMeasurementRecord() []bool {
	out := make([]bool, len(e.record))
	copy(out, e.record)
	return out
}

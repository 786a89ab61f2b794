package simulator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmzhang/leaky/qc/engine/itsu"
	"github.com/inmzhang/leaky/qc/leakage"
	"github.com/inmzhang/leaky/qc/readout"
	"github.com/inmzhang/leaky/qc/simulator"
	"github.com/inmzhang/leaky/qc/testutil"
	"github.com/inmzhang/leaky/qc/transition"
)

func newSim(t *testing.T, numQubits int, collection *transition.TransitionCollection, seed int64) *simulator.Simulator {
	t.Helper()
	eng := itsu.New(nil)
	sim, err := simulator.New(numQubits, eng, collection, seed, nil)
	require.NoError(t, err)
	return sim
}

// E1: noiseless Bell pairs. No transitions are registered, so every gate is
// a pure Clifford dispatch; the two Bell pairs' measurements must agree.
func TestSimulatorNoiselessBell(t *testing.T) {
	sim := newSim(t, 4, nil, 1)
	prog := testutil.NewBellPairsProgram(t)

	require.NoError(t, sim.DoProgram(prog, nil))

	record := sim.CurrentMeasurementRecord(readout.RawLabel)
	require.Len(t, record, 4)
	assert.Equal(t, record[0], record[1])
	assert.Equal(t, record[2], record[3])
}

// E2: a forced leakage trajectory on a single qubit, driven entirely by a
// hand-registered table for "H": 0->1->2->0, with the final deleakage
// randomizing the computational outcome.
func TestSimulatorForcedLeakageTrajectory(t *testing.T) {
	table := transition.NewTransitionTable()
	table.AddRow(leakage.NewStatus(0), []transition.Transition{
		{Initial: leakage.NewStatus(0), Final: leakage.NewStatus(1), Probability: 1, PauliIndex: transition.NoPauli},
	})
	table.AddRow(leakage.NewStatus(1), []transition.Transition{
		{Initial: leakage.NewStatus(1), Final: leakage.NewStatus(2), Probability: 1, PauliIndex: transition.NoPauli},
	})
	table.AddRow(leakage.NewStatus(2), []transition.Transition{
		{Initial: leakage.NewStatus(2), Final: leakage.NewStatus(0), Probability: 1, PauliIndex: transition.NoPauli},
	})
	require.NoError(t, table.Validate())

	collection := transition.NewTransitionCollection()
	collection.Register("H", table, nil)
	sim := newSim(t, 1, collection, 7)

	require.NoError(t, sim.Do("H", []int{0}, nil, true))
	_, err := sim.Measure([]int{0})
	require.NoError(t, err)
	record := sim.CurrentMeasurementRecord(readout.RawLabel)
	assert.Equal(t, 2, record[len(record)-1])

	// "X" has no registered table: the gate is skipped on the engine because
	// the qubit is leaked, and the status is left untouched.
	require.NoError(t, sim.Do("X", []int{0}, nil, true))
	_, err = sim.Measure([]int{0})
	require.NoError(t, err)
	record = sim.CurrentMeasurementRecord(readout.RawLabel)
	assert.Equal(t, 2, record[len(record)-1])

	require.NoError(t, sim.Do("H", []int{0}, nil, true))
	_, err = sim.Measure([]int{0})
	require.NoError(t, err)
	record = sim.CurrentMeasurementRecord(readout.RawLabel)
	assert.Equal(t, 3, record[len(record)-1])

	require.NoError(t, sim.Do("H", []int{0}, nil, true))
	_, err = sim.Measure([]int{0})
	require.NoError(t, err)
	record = sim.CurrentMeasurementRecord(readout.RawLabel)
	assert.Contains(t, []int{0, 1}, record[len(record)-1])

	require.NoError(t, sim.Reset([]int{0}))
	_, err = sim.Measure([]int{0})
	require.NoError(t, err)
	record = sim.CurrentMeasurementRecord(readout.RawLabel)
	assert.Equal(t, 0, record[len(record)-1])
}

// E3: a forced Pauli twirl on a single qubit. The first H is followed by a
// deterministic Z twirl; a second, noise-suppressed H brings the state back
// to a deterministic computational outcome.
func TestSimulatorForcedPauliTwirl(t *testing.T) {
	table := transition.NewTransitionTable()
	table.AddRow(leakage.NewStatus(0), []transition.Transition{
		{Initial: leakage.NewStatus(0), Final: leakage.NewStatus(0), Probability: 1, PauliIndex: 3},
	})
	require.NoError(t, table.Validate())

	collection := transition.NewTransitionCollection()
	collection.Register("H", table, nil)
	sim := newSim(t, 1, collection, 3)

	require.NoError(t, sim.Do("H", []int{0}, nil, true))
	require.NoError(t, sim.Do("H", []int{0}, nil, false))
	_, err := sim.Measure([]int{0})
	require.NoError(t, err)

	record := sim.CurrentMeasurementRecord(readout.RawLabel)
	assert.Equal(t, []int{1}, record)
}

// E4: a forced leakage trajectory driven by CZ on a two-qubit group, walking
// through Up, LeakToLeak and Down transitions with an attached Pauli twirl
// on the surviving Remain-type qubit.
func TestSimulatorForcedTwoQubitLeakageTrajectory(t *testing.T) {
	table := transition.NewTransitionTable()
	table.AddRow(leakage.NewStatus(0, 0), []transition.Transition{
		{Initial: leakage.NewStatus(0, 0), Final: leakage.NewStatus(0, 1), Probability: 1, PauliIndex: 1},
	})
	table.AddRow(leakage.NewStatus(0, 1), []transition.Transition{
		{Initial: leakage.NewStatus(0, 1), Final: leakage.NewStatus(0, 2), Probability: 1, PauliIndex: 1},
	})
	table.AddRow(leakage.NewStatus(0, 2), []transition.Transition{
		{Initial: leakage.NewStatus(0, 2), Final: leakage.NewStatus(1, 2), Probability: 1, PauliIndex: transition.NoPauli},
	})
	table.AddRow(leakage.NewStatus(1, 2), []transition.Transition{
		{Initial: leakage.NewStatus(1, 2), Final: leakage.NewStatus(0, 0), Probability: 1, PauliIndex: transition.NoPauli},
	})
	require.NoError(t, table.Validate())

	collection := transition.NewTransitionCollection()
	collection.Register("CZ", table, nil)
	sim := newSim(t, 2, collection, 11)

	round := func(want []int) {
		require.NoError(t, sim.Do("CZ", []int{0, 1}, nil, true))
		_, err := sim.Measure([]int{0, 1})
		require.NoError(t, err)
		record := sim.CurrentMeasurementRecord(readout.RawLabel)
		got := record[len(record)-2:]
		if want == nil {
			assert.Contains(t, []int{0, 1}, got[0])
			assert.Contains(t, []int{0, 1}, got[1])
			return
		}
		assert.Equal(t, want, got)
	}

	round([]int{1, 2})
	round([]int{0, 3})
	round([]int{2, 3})
	round(nil)
}

// E5: dispatching an unsupported-basis gate must fail with ErrUnsupportedBasis.
func TestSimulatorUnsupportedBasis(t *testing.T) {
	sim := newSim(t, 1, nil, 1)
	err := sim.Do("MX", []int{0}, nil, true)
	assert.True(t, errors.Is(err, simulator.ErrUnsupportedBasis))
}

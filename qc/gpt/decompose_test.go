package gpt_test

import (
	"math"
	"testing"

	"github.com/inmzhang/leaky/qc/gpt"
	"github.com/inmzhang/leaky/qc/leakage"
	"github.com/inmzhang/leaky/qc/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectorSliceTable(t *testing.T) {
	cases := []struct {
		numLevel int
		digits   [][]int
		want     []int
	}{
		{2, [][]int{{0}}, []int{0}},
		{2, [][]int{{0, 1}}, []int{0, 1}},
		{3, [][]int{{2}}, []int{2}},
		{3, [][]int{{0, 1}, {2}}, []int{2, 5}},
		{3, [][]int{{2}, {2}}, []int{8}},
		{4, [][]int{{0, 1}, {0, 1}}, []int{0, 1, 4, 5}},
		{4, [][]int{{0, 1}, {2}}, []int{2, 6}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, gpt.ProjectorSlice(tc.numLevel, tc.digits))
	}
}

func identity(dim int) []complex128 {
	m := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		m[i*dim+i] = 1
	}
	return m
}

func TestDecomposeIdentityEquivariance(t *testing.T) {
	for _, tc := range []struct {
		numQubits, numLevel int
	}{
		{1, 2}, {1, 4}, {2, 2}, {2, 3},
	} {
		dim := 1
		for i := 0; i < tc.numQubits; i++ {
			dim *= tc.numLevel
		}
		table, err := gpt.Decompose([][]complex128{identity(dim)}, tc.numQubits, tc.numLevel)
		require.NoError(t, err)

		zero := make(leakage.Status, tc.numQubits)
		row := table.Row(zero)
		require.Len(t, row, 1, "numQubits=%d numLevel=%d", tc.numQubits, tc.numLevel)
		assert.Equal(t, 0, row[0].PauliIndex)
		assert.InDelta(t, 1.0, row[0].Probability, 1e-9)
		assert.True(t, row[0].Final.Equal(zero))
	}
}

func TestDecomposeInvalidShape(t *testing.T) {
	_, err := gpt.Decompose([][]complex128{{1, 0, 0}}, 1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, gpt.ErrInvalidShape)
}

// depolarizing builds the four single-qubit depolarizing Kraus operators
// sqrt(p_i) * sigma_i for i in {I,X,Y,Z}.
func depolarizing(probs [4]float64) [][]complex128 {
	paulis := [4][4]complex128{
		{1, 0, 0, 1},
		{0, 1, 1, 0},
		{0, -1i, 1i, 0},
		{1, 0, 0, -1},
	}
	ops := make([][]complex128, 4)
	for i, p := range paulis {
		amp := complex(math.Sqrt(probs[i]), 0)
		op := make([]complex128, 4)
		for j, v := range p {
			op[j] = amp * v
		}
		ops[i] = op
	}
	return ops
}

func TestDecomposeSingleQubitDepolarizingRoundTrip(t *testing.T) {
	probs := [4]float64{0.7, 0.1, 0.05, 0.15}
	table, err := gpt.Decompose(depolarizing(probs), 1, 2)
	require.NoError(t, err)

	status0 := leakage.NewStatus(0)
	for i, p := range probs {
		got := table.Probability(status0, status0, i)
		assert.InDelta(t, p, got, 1e-6, "pauli index %d", i)
	}
}

func TestDecomposeTwoQubitDepolarizingRoundTrip(t *testing.T) {
	single := depolarizing([4]float64{0.85, 0.05, 0.03, 0.07})
	// Build 16 two-qubit Kraus operators as tensor products of the
	// single-qubit depolarizing operators, so the expected two-qubit
	// probability is the product of the single-qubit probabilities.
	probs := [4]float64{0.85, 0.05, 0.03, 0.07}
	ops := make([][]complex128, 0, 16)
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			ops = append(ops, kron2(single[a], single[b]))
		}
	}
	table, err := gpt.Decompose(ops, 2, 2)
	require.NoError(t, err)

	status00 := leakage.NewStatus(0, 0)
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			idx := a*4 + b
			want := probs[a] * probs[b]
			got := table.Probability(status00, status00, idx)
			assert.InDelta(t, want, got, 1e-6, "pauli index %d", idx)
		}
	}
}

func kron2(a, b []complex128) []complex128 {
	out := make([]complex128, 16)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			for pr := 0; pr < 2; pr++ {
				for pc := 0; pc < 2; pc++ {
					out[(r*2+pr)*4+(c*2+pc)] = a[r*2+c] * b[pr*2+pc]
				}
			}
		}
	}
	return out
}

func TestDecomposeSingleQubitPartialLeakageUnitary(t *testing.T) {
	theta := math.Pi / 6
	cos, sin := math.Cos(theta), math.Sin(theta)
	// U = block-diag(1, R_xy(theta), 1) on levels {0,1,2,3}; R_xy mixes |1>,|2>.
	u := []complex128{
		1, 0, 0, 0,
		0, complex(cos, 0), complex(-sin, 0), 0,
		0, complex(sin, 0), complex(cos, 0), 0,
		0, 0, 0, 1,
	}
	table, err := gpt.Decompose([][]complex128{u}, 1, 4)
	require.NoError(t, err)

	status0 := leakage.NewStatus(0)
	status1 := leakage.NewStatus(1)
	status2 := leakage.NewStatus(2)

	halfTheta := theta / 2
	assert.InDelta(t, math.Pow(math.Cos(halfTheta), 4), table.Probability(status0, status0, 0), 1e-9)
	assert.InDelta(t, math.Pow(math.Sin(halfTheta), 4), table.Probability(status0, status0, 3), 1e-9)
	assert.InDelta(t, math.Pow(math.Sin(theta), 2)/2, table.Probability(status0, status1, transition.NoPauli), 1e-9)
	assert.InDelta(t, math.Pow(math.Sin(theta), 2), table.Probability(status1, status0, transition.NoPauli), 1e-9)
	assert.InDelta(t, math.Pow(math.Cos(theta), 2), table.Probability(status1, status1, transition.NoPauli), 1e-9)
	assert.InDelta(t, 1.0, table.Probability(status2, status2, transition.NoPauli), 1e-9)
}

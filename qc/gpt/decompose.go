// Package gpt implements the Generalized Pauli Twirling decomposer: it
// projects a set of Kraus operators acting on a d-level, n-qubit system into
// a transition.TransitionTable whose sampling reproduces the twirled channel
// alongside a Clifford tableau.
package gpt

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/inmzhang/leaky/qc/leakage"
	"github.com/inmzhang/leaky/qc/transition"
)

// probabilityFloor is the minimum probability contribution retained; smaller
// contributions are dropped as numerical noise, per spec.
const probabilityFloor = 1e-9

type accKey struct {
	initial leakage.Key
	final   leakage.Key
	pauli   int
}

// Decompose runs the GPT decomposition on krausOperators (each a flat,
// row-major numLevel^numQubits square matrix satisfying sum K_m^dagger K_m =
// I) and returns the resulting TransitionTable.
//
// Summation order is fixed (Kraus operators outermost, then (initial, final)
// status pairs in a canonical enumeration, then U/D scatter combinations,
// then Pauli indices) so floating-point accumulation is reproducible.
func Decompose(krausOperators [][]complex128, numQubits, numLevel int) (*transition.TransitionTable, error) {
	dim := ipow(numLevel, numQubits)
	for i, k := range krausOperators {
		if len(k) != dim*dim {
			return nil, fmt.Errorf("%w: operator %d: expected %d x %d (%d entries), got %d", ErrInvalidShape, i, dim, dim, dim*dim, len(k))
		}
	}
	maxStatus := numLevel - 2
	if maxStatus < 0 {
		return nil, fmt.Errorf("%w: numLevel must be >= 2, got %d", ErrOutOfRangeStatus, numLevel)
	}
	statuses := enumerateStatuses(numQubits, maxStatus)

	acc := make(map[accKey]float64)
	var order []accKey
	record := func(key accKey, amount float64) {
		if amount == 0 {
			return
		}
		if _, seen := acc[key]; !seen {
			order = append(order, key)
		}
		acc[key] += amount
	}

	for _, kraus := range krausOperators {
		for _, initial := range statuses {
			for _, final := range statuses {
				contributePair(kraus, initial, final, numLevel, dim, record)
			}
		}
	}

	table := transition.NewTransitionTable()
	byInitial := make(map[leakage.Key][]transition.Transition)
	var initialOrder []leakage.Key
	for _, key := range order {
		p := acc[key]
		if p < probabilityFloor {
			continue
		}
		if _, seen := byInitial[key.initial]; !seen {
			initialOrder = append(initialOrder, key.initial)
		}
		byInitial[key.initial] = append(byInitial[key.initial], transition.Transition{
			Initial:     key.initial.Status(),
			Final:       key.final.Status(),
			Probability: p,
			PauliIndex:  key.pauli,
		})
	}
	for _, key := range initialOrder {
		table.AddRow(key.Status(), byInitial[key])
	}
	return table, nil
}

// contributePair handles one (initial, final) status pair for one Kraus
// operator: it scatters over the U/D projector-pair combinations and
// accumulates each combination's probability contribution, split by Pauli
// index when the pair has Remain-type qubits.
func contributePair(kraus []complex128, initial, final leakage.Status, numLevel, dim int, record func(accKey, float64)) {
	n := len(initial)
	types := make([]leakage.TransitionType, n)
	var uIdx, dIdx, rIdx []int
	for i := 0; i < n; i++ {
		types[i] = leakage.Classify(initial[i], final[i])
		switch types[i] {
		case leakage.Up:
			uIdx = append(uIdx, i)
		case leakage.Down:
			dIdx = append(dIdx, i)
		case leakage.Remain:
			rIdx = append(rIdx, i)
		}
	}
	r := len(rIdx)
	prefactor := math.Pow(2, -float64(len(uIdx)))

	initialKey := initial.Key()
	finalKey := final.Key()

	for _, uBits := range bitCombos(len(uIdx)) {
		for _, dBits := range bitCombos(len(dIdx)) {
			initialDigits := make([][]int, n)
			finalDigits := make([][]int, n)
			for i := 0; i < n; i++ {
				switch types[i] {
				case leakage.Remain:
					initialDigits[i] = []int{0, 1}
					finalDigits[i] = []int{0, 1}
				case leakage.Up:
					initialDigits[i] = []int{uBits[indexOf(uIdx, i)]}
					finalDigits[i] = []int{final[i] + 1}
				case leakage.Down:
					initialDigits[i] = []int{initial[i] + 1}
					finalDigits[i] = []int{dBits[indexOf(dIdx, i)]}
				case leakage.LeakToLeak:
					initialDigits[i] = []int{initial[i] + 1}
					finalDigits[i] = []int{final[i] + 1}
				}
			}

			initialSlice := ProjectorSlice(numLevel, initialDigits)
			finalSlice := ProjectorSlice(numLevel, finalDigits)
			blockDim := len(initialSlice)
			block := make([]complex128, blockDim*blockDim)
			for row := 0; row < blockDim; row++ {
				for col := 0; col < blockDim; col++ {
					block[row*blockDim+col] = kraus[finalSlice[row]*dim+initialSlice[col]]
				}
			}

			if r == 0 {
				amp := block[0]
				prob := prefactor * real(amp*cmplx.Conj(amp))
				record(accKey{initialKey, finalKey, transition.NoPauli}, prob)
				continue
			}

			numPaulis := ipow(4, r)
			for pauli := 0; pauli < numPaulis; pauli++ {
				digits := transition.DecodePauliDigits(pauli, r)
				p := kronPauli(digits)
				tr := traceProduct(block, p, blockDim)
				amp := tr / complex(float64(blockDim), 0)
				prob := prefactor * real(amp*cmplx.Conj(amp))
				record(accKey{initialKey, finalKey, pauli}, prob)
			}
		}
	}
}

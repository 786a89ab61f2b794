package gpt

import "github.com/inmzhang/leaky/qc/leakage"

// ProjectorSlice computes the row/column index set of the subspace block
// picked out by perQubitDigits, one digit-set per qubit, via recursive
// Kronecker expansion in big-endian qubit order. For example, with
// numLevel=3 and perQubitDigits=[[0,1],[2]], the first qubit contributes
// {0,1} and the second {2}, yielding [2,5].
func ProjectorSlice(numLevel int, perQubitDigits [][]int) []int {
	indices := []int{0}
	for _, digits := range perQubitDigits {
		next := make([]int, 0, len(indices)*len(digits))
		for _, base := range indices {
			for _, d := range digits {
				next = append(next, base*numLevel+d)
			}
		}
		indices = next
	}
	return indices
}

// enumerateStatuses returns every numQubits-length status tuple with each
// coordinate in [0, maxStatus], in a fixed (odometer, last-qubit-fastest)
// order.
func enumerateStatuses(numQubits, maxStatus int) []leakage.Status {
	levels := maxStatus + 1
	total := ipow(levels, numQubits)
	out := make([]leakage.Status, total)
	for idx := 0; idx < total; idx++ {
		rem := idx
		s := make(leakage.Status, numQubits)
		for i := numQubits - 1; i >= 0; i-- {
			s[i] = rem % levels
			rem /= levels
		}
		out[idx] = s
	}
	return out
}

// bitCombos returns every length-k bit vector, 2^k of them, in ascending
// binary order (bitCombos(0) is a single empty combination).
func bitCombos(k int) [][]int {
	n := 1 << uint(k)
	out := make([][]int, n)
	for v := 0; v < n; v++ {
		combo := make([]int, k)
		for i := 0; i < k; i++ {
			combo[i] = (v >> uint(k-1-i)) & 1
		}
		out[v] = combo
	}
	return out
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

func ipow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

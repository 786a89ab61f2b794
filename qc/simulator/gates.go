package simulator

// twoQubitGates names the gates whose targets are grouped as adjacent pairs
// rather than singletons. Extend this set as new two-qubit Cliffords are
// wired to an engine.
var twoQubitGates = map[string]bool{
	"CNOT": true,
	"CX":   true,
	"CZ":   true,
	"SWAP": true,
}

func isTwoQubitGate(name string) bool {
	return twoQubitGates[name]
}

// unsupportedBasisGates is the blacklist of §6: non-Z-basis measurement and
// reset instructions the external engine contract does not support.
var unsupportedBasisGates = map[string]bool{
	"MX": true, "MY": true,
	"RX": true, "RY": true,
	"MRX": true, "MRY": true,
	"MPP": true,
}

// partitionTargets splits targets into gate-arity groups: adjacent pairs for
// two-qubit gates, singletons otherwise.
func partitionTargets(gateName string, targets []int) [][]int {
	if isTwoQubitGate(gateName) {
		groups := make([][]int, 0, len(targets)/2)
		for i := 0; i+1 < len(targets); i += 2 {
			groups = append(groups, []int{targets[i], targets[i+1]})
		}
		return groups
	}
	groups := make([][]int, len(targets))
	for i, t := range targets {
		groups[i] = []int{t}
	}
	return groups
}

package leakage

// TransitionType classifies a single qubit's initial->final status pair.
type TransitionType int

const (
	// Remain is 0->0: the qubit stays computational, possibly twirled by a Pauli.
	Remain TransitionType = iota
	// Up is 0->s>0: the qubit leaks.
	Up
	// Down is s>0->0: the qubit deleaks.
	Down
	// LeakToLeak is s->s'>0: the qubit stays leaked, possibly at a different level.
	LeakToLeak
)

func (t TransitionType) String() string {
	switch t {
	case Remain:
		return "R"
	case Up:
		return "U"
	case Down:
		return "D"
	case LeakToLeak:
		return "L"
	default:
		return "?"
	}
}

// Classify derives a single qubit's TransitionType from its initial and final
// leakage status.
func Classify(initial, final int) TransitionType {
	switch {
	case initial == 0 && final == 0:
		return Remain
	case initial == 0 && final > 0:
		return Up
	case initial > 0 && final == 0:
		return Down
	default:
		return LeakToLeak
	}
}

package simulator

import "errors"

// ErrUnsupportedBasis is returned when an instruction names a non-Z-basis
// measurement/reset gate (MX, MY, RX, RY, MRX, MRY, MPP).
var ErrUnsupportedBasis = errors.New("simulator: unsupported measurement/reset basis")

// ErrQubitCountMismatch is returned when a program's qubit count does not
// match the simulator it is run against.
var ErrQubitCountMismatch = errors.New("simulator: qubit count mismatch")

// ErrInternalConsistency is returned when a sampled Transition has a
// Remain-type qubit but no attached pauli_index, which indicates a
// TransitionTable that bypassed Validate.
var ErrInternalConsistency = errors.New("simulator: internal consistency violation")

package gpt

import "errors"

// ErrInvalidShape is returned when a Kraus operator is not square of side
// numLevel^numQubits.
var ErrInvalidShape = errors.New("gpt: kraus operator has invalid shape")

// ErrOutOfRangeStatus is returned when numLevel leaves no representable
// leakage status (numLevel must be >= 2).
var ErrOutOfRangeStatus = errors.New("gpt: leakage status exceeds representable range")

// Package testutil centralizes test configuration and fixtures shared
// across qc package tests, adapted from the teacher's qc/testutil to the
// leakage domain: fixtures build a program.Program rather than a rendered
// circuit, and histogram assertions operate on readout label rows.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inmzhang/leaky/qc/program"
)

const (
	DefaultTestTimeout = 10 * time.Second
	LongTestTimeout    = 30 * time.Second

	DefaultShots   = 1024
	SmallShots     = 100
	DefaultWorkers = 8

	DefaultTolerance = 0.1
	StrictTolerance  = 0.05
)

// TestConfig holds configuration for a sampling test scenario.
type TestConfig struct {
	Shots     int
	Qubits    int
	Workers   int
	Timeout   time.Duration
	Tolerance float64
}

var (
	QuickTestConfig = TestConfig{
		Shots:     SmallShots,
		Qubits:    2,
		Workers:   4,
		Timeout:   DefaultTestTimeout,
		Tolerance: DefaultTolerance,
	}

	StandardTestConfig = TestConfig{
		Shots:     DefaultShots,
		Qubits:    4,
		Workers:   DefaultWorkers,
		Timeout:   DefaultTestTimeout,
		Tolerance: DefaultTolerance,
	}
)

// WithTimeout creates a context with timeout for test operations.
func WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// NewBellPairsProgram builds the E1 fixture: two independent Bell pairs over
// 4 qubits, reset then measured.
func NewBellPairsProgram(t *testing.T) *program.Program {
	t.Helper()

	prog, err := program.NewBuilder(4).
		R(0, 1, 2, 3).
		H(0).H(2).
		CNOT(0, 1).CNOT(2, 3).
		M(0, 1, 2, 3).
		Build()
	require.NoError(t, err, "failed to build Bell-pairs fixture")
	return prog
}

// NewSingleBellPairProgram builds a single 2-qubit Bell pair, for tests that
// don't need the full 4-qubit fixture.
func NewSingleBellPairProgram(t *testing.T) *program.Program {
	t.Helper()

	prog, err := program.NewBuilder(2).
		R(0, 1).
		H(0).
		CNOT(0, 1).
		M(0, 1).
		Build()
	require.NoError(t, err, "failed to build single Bell-pair fixture")
	return prog
}

// AssertLabelDistribution validates per-label frequencies in a readout
// histogram within tolerance of the expected probabilities.
func AssertLabelDistribution(t *testing.T, hist map[int]int, expected map[int]float64, totalShots int, tolerance float64) {
	t.Helper()

	for label, expectedProb := range expected {
		actualCount := hist[label]
		actualProb := float64(actualCount) / float64(totalShots)

		if expectedProb == 0 {
			require.Equal(t, 0, actualCount, "label %d should have 0 count", label)
			continue
		}
		require.InDelta(t, expectedProb, actualProb, tolerance,
			"label %d probability mismatch: expected %.3f, got %.3f",
			label, expectedProb, actualProb)
	}
}

// RequireWithinTimeout runs fn with a timeout and fails the test if it
// doesn't return in time.
func RequireWithinTimeout(t *testing.T, timeout time.Duration, fn func() error, msgAndArgs ...interface{}) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		require.NoError(t, err, msgAndArgs...)
	case <-ctx.Done():
		t.Fatalf("operation timed out after %v: %v", timeout, msgAndArgs)
	}
}

// SkipIfShort skips the test when run with -short.
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping test in short mode: %s", reason)
	}
}

// SkipIfCI skips the test when run under CI.
func SkipIfCI(t *testing.T, reason string) {
	t.Helper()
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		t.Skipf("skipping test in CI: %s", reason)
	}
}

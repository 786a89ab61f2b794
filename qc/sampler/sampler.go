// Package sampler runs a Program across many independent shots, each with
// its own freshly seeded Simulator, spreading the work over a static-
// partition worker pool in the same style as the teacher's RunParallelStatic.
package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/inmzhang/leaky/internal/logger"
	"github.com/inmzhang/leaky/qc/engine"
	"github.com/inmzhang/leaky/qc/program"
	"github.com/inmzhang/leaky/qc/readout"
	"github.com/inmzhang/leaky/qc/simulator"
	"github.com/inmzhang/leaky/qc/transition"
)

// ErrInvalidStrategy is returned by SampleDetectors when asked to convert a
// non-boolean readout strategy's output.
var ErrInvalidStrategy = errors.New("sampler: strategy must produce a boolean record for detector conversion")

// DetectorConverter turns raw per-shot measurement records into detector and
// observable bits. It is an external collaborator, the same way the
// stabilizer engine and the circuit source are: the sampler never computes
// detector linear combinations itself.
type DetectorConverter interface {
	Convert(records [][]int) (detectors [][]bool, observables [][]bool, err error)
}

// Sampler runs a fixed Program over many shots against a fresh Simulator per
// shot. Every shot's Simulator gets its own StabilizerEngine, built by
// newEngine, so engines never need to be safe for concurrent reuse.
type Sampler struct {
	log *logger.Logger

	numQubits   int
	prog        *program.Program
	newEngine   func() engine.StabilizerEngine
	transitions *transition.TransitionCollection

	// seed is the base a shot's per-shot seed is derived from. nil means no
	// seed was given: every shot must draw its own fresh, non-reproducible
	// seed instead of silently collapsing onto 0.
	seed *int64

	singleQubitControls map[int]int
	twoQubitControls    map[[2]int]int
}

// Option configures a Sampler at construction time.
type Option func(*Sampler)

// WithSeed sets the base seed a shot's per-shot seed is derived from
// (seed*(shot_index+1)). Without WithSeed, each shot draws an independent
// seed from the global math/rand source instead.
func WithSeed(seed int64) Option {
	return func(s *Sampler) { s.seed = &seed }
}

// New returns a Sampler for prog, spawning a fresh engine per shot via
// newEngine and sampling noise from collection (nil means noiseless).
func New(prog *program.Program, newEngine func() engine.StabilizerEngine, collection *transition.TransitionCollection, log *logger.Logger, opts ...Option) *Sampler {
	if log == nil {
		log = logger.NewLogger(logger.LoggerOptions{})
	}
	s := &Sampler{
		log:         log.SpawnForService("sampler"),
		numQubits:   prog.NumQubits,
		prog:        prog,
		newEngine:   newEngine,
		transitions: collection,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSingleQubitTransitionControls configures the single-qubit classical
// control registers every shot's Simulator is built with.
func (s *Sampler) SetSingleQubitTransitionControls(updates map[int]int) {
	if s.singleQubitControls == nil {
		s.singleQubitControls = make(map[int]int, len(updates))
	}
	for k, v := range updates {
		s.singleQubitControls[k] = v
	}
}

// SetTwoQubitTransitionControls configures the two-qubit classical control
// registers every shot's Simulator is built with.
func (s *Sampler) SetTwoQubitTransitionControls(updates map[[2]int]int) {
	if s.twoQubitControls == nil {
		s.twoQubitControls = make(map[[2]int]int, len(updates))
	}
	for k, v := range updates {
		s.twoQubitControls[k] = v
	}
}

// Sample runs shots independent shots across numWorkers goroutines (0 or
// negative means runtime.NumCPU()), returning a shots x NumMeasurements()
// matrix of readout labels under strategy. With WithSeed set, the result is
// deterministic for a fixed (seed, shot count) pair regardless of
// numWorkers, since each shot's seed is derived solely from its own index;
// without it, every shot draws an independent, non-reproducible seed.
func (s *Sampler) Sample(shots, numWorkers int, strategy readout.Strategy) ([][]int, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("sampler: shots must be positive, got %d", shots)
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > shots {
		numWorkers = shots
	}

	runID := uuid.New().String()
	log := s.log.SpawnForRun(runID, shots)
	log.Info().Int("workers", numWorkers).Int("qubits", s.numQubits).Msg("sampler: starting run")

	results := make([][]int, shots)
	per := shots / numWorkers
	extra := shots % numWorkers

	var wg sync.WaitGroup
	errChan := make(chan error, numWorkers)

	start := 0
	for w := 0; w < numWorkers; w++ {
		cnt := per
		if w < extra {
			cnt++
		}
		wg.Add(1)
		go func(start, cnt int) {
			defer wg.Done()
			for i := 0; i < cnt; i++ {
				shot := start + i
				shotSeed := s.shotSeed(shot)
				row, err := s.runShot(shotSeed, strategy)
				if err != nil {
					select {
					case errChan <- fmt.Errorf("sampler: shot %d: %w", shot, err):
					default:
					}
					return
				}
				results[shot] = row
			}
		}(start, cnt)
		start += cnt
	}

	wg.Wait()
	close(errChan)

	if err, ok := <-errChan; ok {
		log.Warn().Err(err).Msg("sampler: run finished with errors")
		return nil, err
	}
	log.Info().Msg("sampler: run finished successfully")
	return results, nil
}

// shotSeed derives shot's seed from the configured base seed, or, if none
// was given, draws a fresh seed off the global math/rand source (which is
// itself randomly seeded at process start and safe for concurrent use), so
// unseeded runs never collapse onto a shared deterministic stream.
func (s *Sampler) shotSeed(shot int) int64 {
	if s.seed == nil {
		return rand.Int63()
	}
	return *s.seed * (int64(shot) + 1)
}

func (s *Sampler) runShot(seed int64, strategy readout.Strategy) ([]int, error) {
	eng := s.newEngine()
	sim, err := simulator.New(s.numQubits, eng, s.transitions, seed, s.log)
	if err != nil {
		return nil, err
	}
	if s.singleQubitControls != nil {
		sim.SetSingleQubitTransitionControls(s.singleQubitControls)
	}
	if s.twoQubitControls != nil {
		sim.SetTwoQubitTransitionControls(s.twoQubitControls)
	}
	if err := sim.DoProgram(s.prog, nil); err != nil {
		return nil, err
	}
	return sim.CurrentMeasurementRecord(strategy), nil
}

// SampleDetectors samples shots under strategy (which must have boolean
// output) and hands the resulting records to converter.
func (s *Sampler) SampleDetectors(shots, numWorkers int, strategy readout.Strategy, converter DetectorConverter) (detectors [][]bool, observables [][]bool, err error) {
	if !strategy.IsBoolean() {
		return nil, nil, fmt.Errorf("sampler: strategy %s: %w", strategy, ErrInvalidStrategy)
	}
	records, err := s.Sample(shots, numWorkers, strategy)
	if err != nil {
		return nil, nil, err
	}
	return converter.Convert(records)
}

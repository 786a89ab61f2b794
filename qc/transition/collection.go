package transition

import (
	"sync"

	"github.com/inmzhang/leaky/qc/leakage"
)

type registration struct {
	table *TransitionTable
	guard Guard
}

// TransitionCollection is the registry of conditional tables keyed by gate
// name; Lookup walks registrations for a gate in insertion order and returns
// the first whose guard matches (a nil guard always matches).
type TransitionCollection struct {
	mu     sync.RWMutex
	byGate map[string][]registration
}

// NewTransitionCollection returns an empty collection.
func NewTransitionCollection() *TransitionCollection {
	return &TransitionCollection{byGate: make(map[string][]registration)}
}

// Register appends a table for gateName, guarded by guard (nil for
// unconditional). Registrations for the same gate are tried in the order
// they were registered.
func (c *TransitionCollection) Register(gateName string, table *TransitionTable, guard Guard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byGate[gateName] = append(c.byGate[gateName], registration{table: table, guard: guard})
}

// Lookup returns the first table registered for gateName whose guard matches
// the current status and control registers, or (nil, false) if none does.
func (c *TransitionCollection) Lookup(gateName string, status leakage.Status, singleQubitControl, twoQubitControl int) (*TransitionTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, reg := range c.byGate[gateName] {
		if reg.guard == nil || reg.guard.Evaluate(status, singleQubitControl, twoQubitControl) {
			return reg.table, true
		}
	}
	return nil, false
}

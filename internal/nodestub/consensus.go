package nodestub

import "sync/atomic"

// StubConsensus is a toggled active-validator flag, letting tests drive
// Validate <-> KeepUp transitions directly.
type StubConsensus struct {
	active atomic.Bool
}

// NewStubConsensus builds a consensus stub with the given initial state.
func NewStubConsensus(active bool) *StubConsensus {
	c := &StubConsensus{}
	c.active.Store(active)
	return c
}

// SetActive flips the stubbed active-validator flag.
func (c *StubConsensus) SetActive(active bool) { c.active.Store(active) }

// IsActiveValidator reports the current stubbed flag.
func (c *StubConsensus) IsActiveValidator() bool { return c.active.Load() }

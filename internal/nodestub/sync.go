package nodestub

import (
	"sync"
	"time"

	"github.com/nodecore/reactor-core/internal/reactor"
	"github.com/nodecore/reactor-core/internal/types"
)

// RegisteredBlock is one recorded call to RegisterBlockByHash.
type RegisteredBlock struct {
	Hash                types.BlockHash
	FetchExecutionState bool
	FanOut              int
}

// StubBlockSynchronizer records every RegisterBlockByHash call and reports
// a settable last-progress timestamp, letting tests drive the CatchUp
// idleness guard directly.
type StubBlockSynchronizer struct {
	mu       sync.Mutex
	progress *time.Time
	calls    []RegisteredBlock
}

// NewStubBlockSynchronizer builds a synchronizer stub with no recorded
// progress (LastProgress reports ok=false until SetProgress is called).
func NewStubBlockSynchronizer() *StubBlockSynchronizer {
	return &StubBlockSynchronizer{}
}

func (s *StubBlockSynchronizer) RegisterBlockByHash(hash types.BlockHash, fetchExecutionState bool, fanOut int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, RegisteredBlock{Hash: hash, FetchExecutionState: fetchExecutionState, FanOut: fanOut})
}

func (s *StubBlockSynchronizer) LastProgress() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return time.Time{}, false
	}
	return *s.progress, true
}

// SetProgress records a new last-progress timestamp for the idleness guard
// to observe on the next crank.
func (s *StubBlockSynchronizer) SetProgress(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = &t
}

// Calls returns every RegisterBlockByHash invocation recorded so far.
func (s *StubBlockSynchronizer) Calls() []RegisteredBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RegisteredBlock, len(s.calls))
	copy(out, s.calls)
	return out
}

// AttemptedLeap is one recorded call to StubSyncLeaper.AttemptLeap.
type AttemptedLeap struct {
	TrustedHash types.BlockHash
	Peers       []reactor.NodeID
}

// StubSyncLeaper records every AttemptLeap call.
type StubSyncLeaper struct {
	mu    sync.Mutex
	calls []AttemptedLeap
}

// NewStubSyncLeaper builds an empty leaper stub.
func NewStubSyncLeaper() *StubSyncLeaper { return &StubSyncLeaper{} }

func (l *StubSyncLeaper) AttemptLeap(trustedHash types.BlockHash, peers []reactor.NodeID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, AttemptedLeap{TrustedHash: trustedHash, Peers: peers})
}

// Calls returns every AttemptLeap invocation recorded so far.
func (l *StubSyncLeaper) Calls() []AttemptedLeap {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AttemptedLeap, len(l.calls))
	copy(out, l.calls)
	return out
}

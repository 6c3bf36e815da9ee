package accumulator

import (
	"github.com/ethereum/go-ethereum/event"
	lru "github.com/hashicorp/golang-lru"

	"github.com/nodecore/reactor-core/internal/metrics"
	"github.com/nodecore/reactor-core/internal/types"
	"github.com/nodecore/reactor-core/internal/weights"
)

// ExecutableEvent is broadcast on an Accumulator's ExecutableFeed every
// time a BlockAcceptor crosses into executable state.
type ExecutableEvent struct {
	BlockHash types.BlockHash
	EraID     types.EraId
}

// DefaultLeapThreshold is the number of blocks a known tip must be ahead of
// the starting point before the evaluator recommends a sync-leap instead of
// linear block-by-block sync.
const DefaultLeapThreshold = 10

// DefaultExecutedCacheSize bounds the number of executed-and-pruned block
// hashes the accumulator remembers purely to avoid re-creating an acceptor
// for gossip that arrives for a hash the node has already moved past.
const DefaultExecutedCacheSize = 4096

// WeightsForEra resolves the EraValidatorWeights snapshot for an era, or
// nil if the era is unknown (e.g. too far in the future). cmd/reactor-node
// builds one from the chainspec's per-era weight tables.
type WeightsForEra func(types.EraId) *weights.EraValidatorWeights

// Accumulator is the Block Gossip Accumulator (BGA): a map from block hash
// to BlockAcceptor, fed by gossip arrivals and queried by the reactor
// control loop for sync instructions.
type Accumulator struct {
	acceptors     map[types.BlockHash]*BlockAcceptor
	parentToChild map[types.BlockHash]types.BlockHash
	heightIndex   map[uint64]types.BlockHash
	executed      *lru.Cache // hashes of blocks the node has already executed and no longer needs an acceptor for

	leapThreshold uint64
	weightsForEra WeightsForEra

	// ExecutableFeed publishes an ExecutableEvent on every acceptor's
	// ready edge transition; subscribers (e.g. the reactor's diagnostics
	// surface) may listen without coupling to the accumulator's internals.
	ExecutableFeed event.Feed
}

// New builds an empty accumulator. weightsForEra resolves validator weight
// snapshots by era; leapThreshold overrides DefaultLeapThreshold when > 0.
func New(weightsForEra WeightsForEra, leapThreshold uint64) *Accumulator {
	if leapThreshold == 0 {
		leapThreshold = DefaultLeapThreshold
	}
	executed, _ := lru.New(DefaultExecutedCacheSize)
	return &Accumulator{
		acceptors:     make(map[types.BlockHash]*BlockAcceptor),
		parentToChild: make(map[types.BlockHash]types.BlockHash),
		heightIndex:   make(map[uint64]types.BlockHash),
		executed:      executed,
		leapThreshold: leapThreshold,
		weightsForEra: weightsForEra,
	}
}

func (a *Accumulator) weightsFor(era types.EraId) *weights.EraValidatorWeights {
	if a.weightsForEra == nil {
		return nil
	}
	return a.weightsForEra(era)
}

func (a *Accumulator) acceptorFor(hash types.BlockHash) *BlockAcceptor {
	return a.acceptors[hash]
}

// Get returns the acceptor for hash, if any.
func (a *Accumulator) Get(hash types.BlockHash) (*BlockAcceptor, bool) {
	acc, ok := a.acceptors[hash]
	return acc, ok
}

// Len reports the number of tracked acceptors.
func (a *Accumulator) Len() int { return len(a.acceptors) }

// Forget removes the acceptor for hash and records it as executed so a
// later, stale gossip arrival for the same hash does not resurrect it.
// This is the garbage-collection policy spec.md §3 reserves for "a higher
// layer once the block is executed and finalized" — callers invoke it once
// a block has been committed, not the accumulator itself.
func (a *Accumulator) Forget(hash types.BlockHash) {
	delete(a.acceptors, hash)
	a.executed.Add(hash, struct{}{})
	metrics.AcceptorsTracked.Update(int64(len(a.acceptors)))
}

func (a *Accumulator) wasExecuted(hash types.BlockHash) bool {
	_, ok := a.executed.Get(hash)
	return ok
}

// ReceiveBlockAdded ingests a gossiped block body, creating a new acceptor
// or merging into an existing one. It returns true exactly on the edge
// transition that made the block executable.
func (a *Accumulator) ReceiveBlockAdded(ba types.BlockAdded) (bool, error) {
	if a.wasExecuted(ba.Block.Hash()) {
		return false, nil
	}
	hash := ba.Block.Hash()
	w := a.weightsFor(ba.Block.Header().EraID())

	acc, ok := a.acceptors[hash]
	if !ok {
		newAcc, err := NewFromBlockAdded(ba)
		if err != nil {
			return false, err
		}
		a.acceptors[hash] = newAcc
		a.indexBlock(newAcc)
		metrics.AcceptorsTracked.Update(int64(len(a.acceptors)))
		ready := newAcc.CanExecute(w)
		a.announceIfReady(ready, newAcc)
		return ready, nil
	}

	ready, err := acc.RegisterBlock(ba, w)
	if err != nil {
		return false, err
	}
	a.indexBlock(acc)
	a.announceIfReady(ready, acc)
	return ready, nil
}

// ReceiveFinalitySignature ingests a gossiped finality signature, creating
// a new acceptor or merging into an existing one. It returns true exactly
// on the edge transition that made the block executable.
func (a *Accumulator) ReceiveFinalitySignature(sig types.FinalitySignature) (bool, error) {
	if a.wasExecuted(sig.BlockHash) {
		return false, nil
	}
	w := a.weightsFor(sig.EraID)

	acc, ok := a.acceptors[sig.BlockHash]
	if !ok {
		newAcc, err := NewFromFinalitySignature(sig, w)
		if err != nil {
			return false, err
		}
		a.acceptors[sig.BlockHash] = newAcc
		metrics.AcceptorsTracked.Update(int64(len(a.acceptors)))
		ready := newAcc.CanExecute(w)
		a.announceIfReady(ready, newAcc)
		return ready, nil
	}

	ready, err := acc.RegisterSignature(sig, w)
	if err != nil {
		return false, err
	}
	a.announceIfReady(ready, acc)
	return ready, nil
}

func (a *Accumulator) announceIfReady(ready bool, acc *BlockAcceptor) {
	if !ready {
		return
	}
	metrics.WeightThresholdCrossings.Inc(1)
	a.ExecutableFeed.Send(ExecutableEvent{BlockHash: acc.BlockHash(), EraID: acc.EraID()})
}

func (a *Accumulator) indexBlock(acc *BlockAcceptor) {
	if !acc.HasBlock() {
		return
	}
	header := acc.Block().Header()
	a.heightIndex[header.Height()] = acc.BlockHash()
	a.parentToChild[header.ParentHash()] = acc.BlockHash()
}

// highestKnownHeight returns the tallest height of any block whose body has
// been gossiped to this accumulator, and whether any such block exists.
func (a *Accumulator) highestKnownHeight() (uint64, bool) {
	var (
		best  uint64
		found bool
	)
	for height := range a.heightIndex {
		if !found || height > best {
			best = height
			found = true
		}
	}
	return best, found
}

// SyncInstruction answers "what should the reactor do next, starting from
// this point?". It is deterministic per accumulator state and never adds,
// removes or re-indexes acceptors; the one state change it can cause is
// flipping a child acceptor's executable latch through CanExecute.
func (a *Accumulator) SyncInstruction(startingWith StartingWith) SyncInstruction {
	startingHeight, haveHeight := startingWith.Height()
	if !haveHeight {
		if acc, ok := a.acceptors[startingWith.BlockHash()]; ok && acc.HasBlock() {
			startingHeight = acc.Block().Header().Height()
			haveHeight = true
		}
	}

	if highest, ok := a.highestKnownHeight(); ok {
		baseline := uint64(0)
		if haveHeight {
			baseline = startingHeight
		}
		if highest > baseline+a.leapThreshold {
			metrics.SyncLeaps.Inc(1)
			return SyncInstruction{Kind: SyncLeap}
		}
	}

	childHash, ok := a.parentToChild[startingWith.BlockHash()]
	if !ok {
		return SyncInstruction{Kind: SyncCaughtUp}
	}
	childAcc := a.acceptors[childHash]
	if childAcc == nil {
		return SyncInstruction{Kind: SyncCaughtUp}
	}

	if childAcc.CanExecute(a.weightsFor(childAcc.EraID())) {
		return SyncInstruction{Kind: SyncBlockExec, Block: childAcc.Block()}
	}

	return SyncInstruction{
		Kind:                SyncBlockSync,
		Hash:                childHash,
		FetchExecutionState: startingWith.IsHash(),
	}
}

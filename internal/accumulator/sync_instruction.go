package accumulator

import "github.com/nodecore/reactor-core/internal/types"

// StartingWithKind tags the two ways a sync-instruction query may describe
// its starting point.
type StartingWithKind int

const (
	StartingWithBlock StartingWithKind = iota
	StartingWithHash
)

// StartingWith is the starting point the reactor control loop supplies when
// asking the accumulator for a SyncInstruction: either a block value (the
// node has this block locally) or a bare hash (it does not).
type StartingWith struct {
	kind  StartingWithKind
	block types.Block
	hash  types.BlockHash
}

// StartingWithBlockValue wraps a locally-known block.
func StartingWithBlockValue(b types.Block) StartingWith {
	return StartingWith{kind: StartingWithBlock, block: b, hash: b.Hash()}
}

// StartingWithHashValue wraps a bare hash the node does not hold locally.
func StartingWithHashValue(h types.BlockHash) StartingWith {
	return StartingWith{kind: StartingWithHash, hash: h}
}

// BlockHash returns the starting point's hash regardless of which variant
// it is.
func (s StartingWith) BlockHash() types.BlockHash { return s.hash }

// IsHash reports whether this starting point is a bare hash (no local
// block known).
func (s StartingWith) IsHash() bool { return s.kind == StartingWithHash }

// Height returns the starting point's height and whether it is known. A
// bare-hash starting point has no known height.
func (s StartingWith) Height() (uint64, bool) {
	if s.kind == StartingWithBlock {
		return s.block.Header().Height(), true
	}
	return 0, false
}

// SyncInstructionKind tags the SyncInstruction variants.
type SyncInstructionKind int

const (
	// SyncLeap means the accumulator knows of a chain tip far enough
	// ahead of the starting point that linear sync would be wasteful; the
	// reactor should perform a sync-leap.
	SyncLeap SyncInstructionKind = iota
	// SyncBlockSync means the next block the node must pull is known by
	// hash but not yet locally verified/executed.
	SyncBlockSync
	// SyncBlockExec means the next block is already fully accumulated
	// (body + sufficient signature weight) and can be handed to the
	// contract runtime immediately.
	SyncBlockExec
	// SyncCaughtUp means no known block is ahead of the starting point.
	SyncCaughtUp
)

// SyncInstruction is the accumulator's answer to "what should the reactor
// do next, starting from this point in the chain?".
type SyncInstruction struct {
	Kind SyncInstructionKind

	// Valid when Kind == SyncBlockSync.
	Hash                types.BlockHash
	FetchExecutionState bool

	// Valid when Kind == SyncBlockExec.
	Block types.Block
}

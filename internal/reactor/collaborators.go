package reactor

import (
	"time"

	"github.com/nodecore/reactor-core/internal/types"
)

// NodeID is an opaque peer identifier returned by the network collaborator.
type NodeID string

// Network produces a random peer sample and carries gossip.
type Network interface {
	PeersRandomVec(n int) []NodeID
}

// Storage persists and reads blocks by hash and reports the highest
// locally known block. ReadBlock returns (nil, nil) when the hash is
// simply unknown; a non-nil error signals a fatal storage fault.
type Storage interface {
	ReadBlock(hash types.BlockHash) (types.Block, error)
	HighestBlock() (types.Block, bool)
}

// ExecutionPreState is the state the contract runtime needs before
// executing the next block: the height/post-state-hash/parent/seed
// quadruple described in spec.md §4.4.
type ExecutionPreState struct {
	NextHeight      uint64
	PostStateHash   types.BlockHash
	ParentHash      types.BlockHash
	AccumulatedSeed types.BlockHash
}

// EraReport is a synthetic, empty era-end report attached to the
// genesis/upgrade finalized block.
type EraReport struct{}

// FinalizedBlock is the payload handed to the contract runtime for
// execution by commit-genesis and commit-upgrade.
type FinalizedBlock struct {
	EraReport   EraReport
	Timestamp   uint64
	EraID       types.EraId
	Height      uint64
	Proposer    types.PublicKey
	Transfers   []any
	Deploys     []any
}

// SystemPublicKey identifies the protocol-level proposer used for
// synthetic genesis/upgrade blocks.
var SystemPublicKey = types.NewPublicKey([]byte("system"))

// CommitGenesisResult and CommitUpgradeResult carry the contract runtime's
// post-state hash back to the caller.
type CommitGenesisResult struct{ PostStateHash types.BlockHash }
type CommitUpgradeResult struct{ PostStateHash types.BlockHash }

// UpgradeConfig bundles the inputs commit-upgrade needs from the prior
// block header and the raw chainspec bytes.
type UpgradeConfig struct {
	PrevStateRootHash   types.BlockHash
	PrevProtocolVersion uint32
	PrevEraID           types.EraId
	RawChainspec        []byte
}

// ContractRuntime executes commit_genesis, commit_upgrade and block
// execution, and returns a post-state hash.
type ContractRuntime interface {
	CommitGenesis(rawChainspec []byte) (CommitGenesisResult, error)
	CommitUpgrade(cfg UpgradeConfig) (CommitUpgradeResult, error)
	SetInitialState(pre ExecutionPreState)
	EnqueueBlockForExecution(fb FinalizedBlock)
}

// Consensus answers whether this node is currently an active validator.
type Consensus interface {
	IsActiveValidator() bool
}

// BlockSynchronizer is instructed by the reactor to pull a specific block;
// the reactor only ever reads its last-progress timestamp back.
type BlockSynchronizer interface {
	RegisterBlockByHash(hash types.BlockHash, fetchExecutionState bool, fanOut int)
	LastProgress() (time.Time, bool)
}

// SyncLeaper is instructed to attempt a trust-root based rapid catch-up.
type SyncLeaper interface {
	AttemptLeap(trustedHash types.BlockHash, peers []NodeID)
}

// ActivationPointKind tags the two activation-point variants a chainspec
// may declare.
type ActivationPointKind int

const (
	ActivationGenesis ActivationPointKind = iota
	ActivationUpgradeEra
)

// ActivationPoint is the chainspec-declared moment a protocol version takes
// effect: a genesis timestamp, or an era id for an upgrade.
type ActivationPoint struct {
	Kind             ActivationPointKind
	GenesisTimestamp time.Time
	UpgradeEraID     types.EraId
}

package reactor

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/types"
)

// dispatchCommitGenesis runs the one-shot pre-genesis bootstrap: commit the
// chainspec to the contract runtime, seed its initial execution state, and
// enqueue the synthetic height-0 finalized block.
func (r *Reactor) dispatchCommitGenesis() Outcome {
	result, err := r.runtime.CommitGenesis(r.cfg.RawChainspec)
	if err != nil {
		return wrapFatal(err, "failed to commit genesis")
	}

	if r.cfg.ActivationPoint.Kind != ActivationGenesis {
		return fatal("must have genesis timestamp")
	}
	genesisTimestamp := r.cfg.ActivationPoint.GenesisTimestamp

	log.Info("successfully ran genesis",
		"postStateHash", result.PostStateHash,
		"genesisTimestamp", genesisTimestamp,
		"networkName", r.cfg.NetworkName,
	)

	const nextBlockHeight = 0
	r.runtime.SetInitialState(ExecutionPreState{
		NextHeight:      nextBlockHeight,
		PostStateHash:   result.PostStateHash,
		ParentHash:      types.ZeroHash,
		AccumulatedSeed: types.ZeroHash,
	})

	r.runtime.EnqueueBlockForExecution(FinalizedBlock{
		EraReport: EraReport{},
		Timestamp: uint64(genesisTimestamp.Unix()),
		EraID:     0,
		Height:    nextBlockHeight,
		Proposer:  SystemPublicKey,
	})

	return after(r.waitDuration())
}

// dispatchCommitUpgrade runs the one-shot post-upgrade bootstrap using the
// last block executed under the previous protocol version.
func (r *Reactor) dispatchCommitUpgrade(previous types.Block) Outcome {
	header := previous.Header()
	cfg := UpgradeConfig{
		PrevStateRootHash:   header.StateRootHash(),
		PrevProtocolVersion: header.ProtocolVersion(),
		PrevEraID:           header.EraID(),
		RawChainspec:        r.cfg.RawChainspec,
	}

	result, err := r.runtime.CommitUpgrade(cfg)
	if err != nil {
		return wrapFatal(err, "failed to upgrade protocol")
	}

	log.Info("upgrade committed", "networkName", r.cfg.NetworkName, "postStateHash", result.PostStateHash)

	nextBlockHeight := header.Height() + 1
	r.runtime.SetInitialState(ExecutionPreState{
		NextHeight:      nextBlockHeight,
		PostStateHash:   result.PostStateHash,
		ParentHash:      previous.Hash(),
		AccumulatedSeed: header.AccumulatedSeed(),
	})

	r.runtime.EnqueueBlockForExecution(FinalizedBlock{
		EraReport: EraReport{},
		Timestamp: header.Timestamp(),
		EraID:     header.NextBlockEraID(),
		Height:    nextBlockHeight,
		Proposer:  SystemPublicKey,
	})

	return after(r.waitDuration())
}

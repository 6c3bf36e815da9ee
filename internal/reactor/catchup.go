package reactor

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/accumulator"
	"github.com/nodecore/reactor-core/internal/metrics"
)

// crankCatchUp drives one CatchUp-state step: enforce the idleness guard,
// pick a starting point, consult the accumulator, and act on its verdict.
func (r *Reactor) crankCatchUp() Outcome {
	if outcome, idle := r.enforceIdleTolerance(); idle {
		return outcome
	}

	startingWith, outcome, done := r.catchUpStartingPoint()
	if done {
		return outcome
	}

	trustedHash := startingWith.BlockHash()
	instr := r.accumulator.SyncInstruction(startingWith)

	switch instr.Kind {
	case accumulator.SyncLeap:
		peers := r.network.PeersRandomVec(r.cfg.PeerFanOut)
		r.syncLeaper.AttemptLeap(trustedHash, peers)
		return after(r.waitDuration())

	case accumulator.SyncBlockSync:
		r.blockSync.RegisterBlockByHash(instr.Hash, instr.FetchExecutionState, r.cfg.PeerFanOut)
		return immediate()

	case accumulator.SyncBlockExec:
		log.Debug("BlockExec should be unreachable in CatchUp mode", "hash", instr.Block.Hash())
		r.blockSync.RegisterBlockByHash(instr.Block.Hash(), false, r.cfg.PeerFanOut)
		return immediate()

	case accumulator.SyncCaughtUp:
		return r.handleCaughtUpWhileCatchingUp()

	default:
		return fatal("unreachable sync instruction kind")
	}
}

// enforceIdleTolerance resets or increments the idle-attempt counter based
// on the block synchronizer's last reported progress, shutting the node
// down once max attempts is exceeded. The second return value is true when
// the caller should return the accompanying Outcome immediately rather
// than continue evaluating a starting point this crank.
func (r *Reactor) enforceIdleTolerance() (Outcome, bool) {
	last, ok := r.blockSync.LastProgress()
	if !ok {
		return Outcome{}, false
	}

	if time.Since(last) <= r.cfg.IdleTolerance {
		r.idle.attempts = 0
		return after(r.waitDuration() * 2), true
	}

	r.idle.attempts++
	metrics.IdleAttempts.Update(int64(r.idle.attempts))
	if r.idle.attempts > r.cfg.MaxAttempts {
		return fatal("catch up process exceeds idle tolerances"), true
	}
	return Outcome{}, false
}

// catchUpStartingPoint implements spec.md §4.3's starting-point decision
// table: no trusted hash falls back to the local tip, or to a pre-genesis
// CommitGenesis dispatch, or to a fatal shutdown when post-genesis with
// neither; a trusted hash present is reconciled against local storage and
// the local tip per the four cases the original enumerates.
func (r *Reactor) catchUpStartingPoint() (accumulator.StartingWith, Outcome, bool) {
	if r.cfg.TrustedHash == nil {
		if block, ok := r.storage.HighestBlock(); ok {
			return accumulator.StartingWithBlockValue(block), Outcome{}, false
		}

		if r.cfg.ActivationPoint.Kind == ActivationGenesis && time.Now().Before(r.cfg.ActivationPoint.GenesisTimestamp) {
			return accumulator.StartingWith{}, r.dispatchCommitGenesis(), true
		}

		return accumulator.StartingWith{}, fatal("post-genesis; cannot proceed without trusted hash provided"), true
	}

	trustedHash := *r.cfg.TrustedHash
	trustedBlock, err := r.storage.ReadBlock(trustedHash)
	if err != nil {
		return accumulator.StartingWith{}, wrapFatal(err, "fatal block store error when attempting to read block under trusted hash"), true
	}

	localTip, haveTip := r.storage.HighestBlock()
	if trustedBlock != nil {
		if !haveTip || trustedBlock.Header().Height() > localTip.Header().Height() {
			return accumulator.StartingWithHashValue(trustedHash), Outcome{}, false
		}
		return accumulator.StartingWithBlockValue(localTip), Outcome{}, false
	}

	// trustedBlock is unknown locally: fall back to hash-only starting
	// point regardless of whether a local tip exists, matching the
	// original's "we don't have the trusted block yet" branch.
	return accumulator.StartingWithHashValue(trustedHash), Outcome{}, false
}

// handleCaughtUpWhileCatchingUp is reached once the accumulator reports no
// further sync work from the chosen starting point. A local tip whose era
// equals its own next-block era id marks a just-activated upgrade that
// still needs its immediate-switch block committed; otherwise the reactor
// is simply caught up and promotes to KeepUp.
func (r *Reactor) handleCaughtUpWhileCatchingUp() Outcome {
	block, ok := r.storage.HighestBlock()
	if !ok {
		return fatal("can't be caught up with no block in the block store")
	}

	if block.Header().EraID() == block.Header().NextBlockEraID() {
		return r.dispatchCommitUpgrade(block)
	}

	r.state = StateKeepUp
	metrics.StateTransitionsToKeepUp.Inc(1)
	return immediate()
}

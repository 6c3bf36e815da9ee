package reactor

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/accumulator"
	"github.com/nodecore/reactor-core/internal/metrics"
)

// crankKeepUp drives one KeepUp-state step. Unlike CatchUp, which consults
// the accumulator from a freshly chosen starting point every crank,
// KeepUp always asks "what's next after my own local tip" — the resolved
// answer to the open question the original left as a zero-hash
// placeholder (see DESIGN.md, "Open Question: KeepUp's starting-point
// hash", for the rationale).
func (r *Reactor) crankKeepUp() Outcome {
	localTip, ok := r.storage.HighestBlock()
	if !ok {
		return fatal("keep up entered with no local tip")
	}

	instr := r.accumulator.SyncInstruction(accumulator.StartingWithBlockValue(localTip))

	switch instr.Kind {
	case accumulator.SyncLeap:
		log.Info("fell behind while keeping up, returning to catch up")
		r.state = StateCatchUp
		metrics.StateTransitionsToCatchUp.Inc(1)
		return immediate()

	case accumulator.SyncBlockSync:
		r.blockSync.RegisterBlockByHash(instr.Hash, instr.FetchExecutionState, r.cfg.PeerFanOut)
		return immediate()

	case accumulator.SyncBlockExec:
		r.blockSync.RegisterBlockByHash(instr.Block.Hash(), false, r.cfg.PeerFanOut)
		return immediate()

	case accumulator.SyncCaughtUp:
		if r.consensus.IsActiveValidator() {
			r.state = StateValidate
			metrics.StateTransitionsToValidate.Inc(1)
		}
		return immediate()

	default:
		return fatal("unreachable sync instruction kind")
	}
}

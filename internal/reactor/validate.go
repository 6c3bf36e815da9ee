package reactor

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/metrics"
)

// crankValidate drives one Validate-state step. Validate has no sync work
// of its own: it only watches whether this node is still an active
// validator, demoting to KeepUp the moment it isn't (either it has fallen
// out of the validator set in a new era, or consensus doesn't yet have
// enough protocol data to run).
func (r *Reactor) crankValidate() Outcome {
	if !r.consensus.IsActiveValidator() {
		log.Info("no longer an active validator, returning to keep up")
		r.state = StateKeepUp
		metrics.StateTransitionsToKeepUp.Inc(1)
	}
	return immediate()
}

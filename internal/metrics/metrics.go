// Package metrics registers the go-ethereum-style counters and gauges the
// reactor control loop and block gossip accumulator update as they run,
// mirroring the teacher's package-level registered-metric idiom (see
// core/vote/vote_signer.go's votesSigningErrorCounter).
package metrics

import "github.com/ethereum/go-ethereum/metrics"

var (
	// CrankTotal counts every Reactor.Crank invocation.
	CrankTotal = metrics.NewRegisteredCounter("reactor/crank/total", nil)

	// StateTransitions counts every ReactorState change, tagged by the
	// state being entered.
	StateTransitionsToCatchUp  = metrics.NewRegisteredCounter("reactor/state/catchup", nil)
	StateTransitionsToKeepUp   = metrics.NewRegisteredCounter("reactor/state/keepup", nil)
	StateTransitionsToValidate = metrics.NewRegisteredCounter("reactor/state/validate", nil)

	// IdleAttempts tracks the CatchUp idleness guard's running counter as
	// a gauge so operators can see how close the node is to its shutdown
	// threshold.
	IdleAttempts = metrics.NewRegisteredGauge("reactor/catchup/idle_attempts", nil)

	// WeightThresholdCrossings counts every edge transition a BlockAcceptor
	// reports from RegisterSignature/RegisterBlock.
	WeightThresholdCrossings = metrics.NewRegisteredCounter("accumulator/weight_threshold_crossings", nil)

	// AcceptorsTracked is a gauge of the accumulator's live acceptor count.
	AcceptorsTracked = metrics.NewRegisteredGauge("accumulator/acceptors_tracked", nil)

	// SyncLeaps counts every SyncLeap instruction the accumulator returns.
	SyncLeaps = metrics.NewRegisteredCounter("accumulator/sync_leaps", nil)
)

package reactor

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/accumulator"
	"github.com/nodecore/reactor-core/internal/metrics"
	"github.com/nodecore/reactor-core/internal/types"
)

// Config bundles the tunables the control loop was instantiated with;
// all of them are chainspec- or CLI-flag-derived and fixed for the node's
// lifetime.
type Config struct {
	TrustedHash     *types.BlockHash
	IdleTolerance   time.Duration
	MaxAttempts     int
	WaitSec         uint64
	PeerFanOut      int
	ActivationPoint ActivationPoint
	NetworkName     string
	RawChainspec    []byte
}

// Reactor is the Reactor Control Loop: a single-threaded state machine
// cranked on a timer, coordinating the Block Gossip Accumulator with the
// node's network, storage, consensus and contract-runtime collaborators.
type Reactor struct {
	state StateKind
	idle  catchUpIdleState

	accumulator *accumulator.Accumulator
	storage     Storage
	network     Network
	blockSync   BlockSynchronizer
	syncLeaper  SyncLeaper
	runtime     ContractRuntime
	consensus   Consensus

	cfg Config

	componentsInitialized bool
	crankCount            uint64
}

// New constructs a Reactor in its Initialize state.
func New(
	acc *accumulator.Accumulator,
	storage Storage,
	network Network,
	blockSync BlockSynchronizer,
	syncLeaper SyncLeaper,
	runtime ContractRuntime,
	consensus Consensus,
	cfg Config,
) *Reactor {
	if cfg.WaitSec == 0 {
		cfg.WaitSec = WaitSec
	}
	return &Reactor{
		state:       StateInitialize,
		accumulator: acc,
		storage:     storage,
		network:     network,
		blockSync:   blockSync,
		syncLeaper:  syncLeaper,
		runtime:     runtime,
		consensus:   consensus,
		cfg:         cfg,
	}
}

// State reports the reactor's current state, mostly for diagnostics.
func (r *Reactor) State() StateKind { return r.state }

// StateString satisfies diagnostics.StateReporter.
func (r *Reactor) StateString() string { return r.state.String() }

// CrankCount reports how many cranks have run, for diagnostics.
func (r *Reactor) CrankCount() uint64 { return r.crankCount }

func (r *Reactor) waitDuration() time.Duration {
	return time.Duration(r.cfg.WaitSec) * time.Second
}

// Crank advances the reactor by exactly one state-machine step and reports
// how long the caller should wait before cranking again, or a shutdown
// error if the node can no longer proceed.
func (r *Reactor) Crank() Outcome {
	r.crankCount++
	metrics.CrankTotal.Inc(1)

	switch r.state {
	case StateInitialize:
		return r.crankInitialize()
	case StateCatchUp:
		return r.crankCatchUp()
	case StateKeepUp:
		return r.crankKeepUp()
	case StateValidate:
		return r.crankValidate()
	default:
		return fatal("unreachable reactor state")
	}
}

// crankInitialize performs the ordered, idempotent lazy component bring-up
// the original control loop sequences through diagnostics, upgrade watcher,
// network, event stream, REST and RPC servers before ever entering
// CatchUp. Collaborators in this Go port are constructed fully wired by
// their owner (cmd/reactor-node), so there is no per-component handshake
// left to perform here beyond the one-shot transition itself.
func (r *Reactor) crankInitialize() Outcome {
	if !r.componentsInitialized {
		r.componentsInitialized = true
		log.Info("reactor components initialized")
	}
	r.state = StateCatchUp
	metrics.StateTransitionsToCatchUp.Inc(1)
	return immediate()
}

// Run drives the crank loop until a shutdown outcome is produced or stop
// is closed. It is the concrete substitute for the effect-queue-driven event
// loop the original reactor ran under: crank, sleep for the returned
// delay (or re-crank immediately), repeat.
func (r *Reactor) Run(stop <-chan struct{}) error {
	for {
		outcome := r.Crank()
		if outcome.Err != nil {
			return outcome.Err
		}
		if outcome.Delay <= 0 {
			select {
			case <-stop:
				return nil
			default:
			}
			continue
		}
		timer := time.NewTimer(outcome.Delay)
		select {
		case <-stop:
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nodecore/reactor-core/internal/accumulator"
	"github.com/nodecore/reactor-core/internal/nodestub"
	"github.com/nodecore/reactor-core/internal/testblock"
	"github.com/nodecore/reactor-core/internal/types"
)

func newTestReactor(cfg Config) (*Reactor, *nodestub.MemStorage, *nodestub.LocalNetwork, *nodestub.StubBlockSynchronizer, *nodestub.StubSyncLeaper, *nodestub.StubContractRuntime, *nodestub.StubConsensus) {
	storage := nodestub.NewMemStorage()
	network := nodestub.NewLocalNetwork("peer-a", "peer-b", "peer-c")
	blockSync := nodestub.NewStubBlockSynchronizer()
	syncLeaper := nodestub.NewStubSyncLeaper()
	runtime := nodestub.NewStubContractRuntime(types.BlockHash{0xAA}, types.BlockHash{0xBB})
	consensus := nodestub.NewStubConsensus(false)

	acc := accumulator.New(nil, accumulator.DefaultLeapThreshold)

	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.IdleTolerance == 0 {
		cfg.IdleTolerance = time.Minute
	}
	if cfg.PeerFanOut == 0 {
		cfg.PeerFanOut = 2
	}

	r := New(acc, storage, network, blockSync, syncLeaper, runtime, consensus, cfg)
	return r, storage, network, blockSync, syncLeaper, runtime, consensus
}

func TestInitializeTransitionsToCatchUp(t *testing.T) {
	r, _, _, _, _, _, _ := newTestReactor(Config{})
	require.Equal(t, StateInitialize, r.State())

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Equal(t, StateCatchUp, r.State())
}

func TestCatchUpCommitsGenesisPreGenesis(t *testing.T) {
	future := time.Now().Add(time.Hour)
	r, _, _, _, _, runtime, _ := newTestReactor(Config{
		ActivationPoint: ActivationPoint{Kind: ActivationGenesis, GenesisTimestamp: future},
		RawChainspec:    []byte("raw"),
	})
	r.state = StateCatchUp

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Len(t, runtime.GenesisCalls, 1)
	require.Len(t, runtime.Enqueued, 1)
	require.Equal(t, types.EraId(0), runtime.Enqueued[0].EraID)
}

func TestCatchUpShutsDownPostGenesisNoTrustedHash(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	r, _, _, _, _, _, _ := newTestReactor(Config{
		ActivationPoint: ActivationPoint{Kind: ActivationGenesis, GenesisTimestamp: past},
	})
	r.state = StateCatchUp

	outcome := r.Crank()
	require.Error(t, outcome.Err)
	var shutdownErr *ShutdownError
	require.ErrorAs(t, outcome.Err, &shutdownErr)
}

func TestCatchUpIdleGuardShutsDownAfterMaxAttempts(t *testing.T) {
	// A pre-genesis activation point keeps each idle crank in CatchUp
	// (it commits genesis and reschedules) instead of shutting down on the
	// post-genesis branch, so the idle cap is what ends the loop.
	r, _, _, blockSync, _, _, _ := newTestReactor(Config{
		MaxAttempts:     2,
		IdleTolerance:   time.Millisecond,
		ActivationPoint: ActivationPoint{Kind: ActivationGenesis, GenesisTimestamp: time.Now().Add(time.Hour)},
	})
	r.state = StateCatchUp
	blockSync.SetProgress(time.Now().Add(-time.Hour))

	var last Outcome
	for i := 0; i < 4; i++ {
		last = r.Crank()
		if last.Err != nil {
			break
		}
	}
	require.Error(t, last.Err)
	var shutdownErr *ShutdownError
	require.ErrorAs(t, last.Err, &shutdownErr)
	require.Equal(t, "catch up process exceeds idle tolerances", shutdownErr.Reason)
	require.Equal(t, 3, r.idle.attempts)
}

func TestCatchUpIdleGuardResetsOnProgress(t *testing.T) {
	r, _, _, blockSync, _, _, _ := newTestReactor(Config{MaxAttempts: 2, IdleTolerance: time.Hour})
	r.state = StateCatchUp
	blockSync.SetProgress(time.Now())

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Equal(t, 0, r.idle.attempts)
	require.Equal(t, r.waitDuration()*2, outcome.Delay)
}

func TestCatchUpLeapsWhenAccumulatorFarAhead(t *testing.T) {
	r, storage, _, _, syncLeaper, _, _ := newTestReactor(Config{})
	r.state = StateCatchUp

	var parent types.BlockHash
	var tip types.Block
	for i := 0; i < 20; i++ {
		b := testblock.New(testblock.Header{Era: 1, Ht: uint64(i), Parent: parent})
		if i == 0 {
			storage.Put(b)
			tip = b
		}
		_, err := r.accumulator.ReceiveBlockAdded(types.BlockAdded{Block: b})
		require.NoError(t, err)
		parent = b.Hash()
	}
	require.NotNil(t, tip)

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Len(t, syncLeaper.Calls(), 1)
	require.Equal(t, tip.Hash(), syncLeaper.Calls()[0].TrustedHash)
}

func TestKeepUpPromotesToValidateWhenCaughtUp(t *testing.T) {
	r, storage, _, _, _, _, consensus := newTestReactor(Config{})
	r.state = StateKeepUp
	consensus.SetActive(true)

	tip := testblock.New(testblock.Header{Era: 1, Ht: 5})
	storage.Put(tip)

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Equal(t, StateValidate, r.State())
}

func TestKeepUpFallsBackToCatchUpOnLeap(t *testing.T) {
	r, storage, _, _, _, _, _ := newTestReactor(Config{})
	r.state = StateKeepUp

	var parent types.BlockHash
	for i := 0; i < 20; i++ {
		b := testblock.New(testblock.Header{Era: 1, Ht: uint64(i), Parent: parent})
		if i == 0 {
			storage.Put(b)
		}
		_, err := r.accumulator.ReceiveBlockAdded(types.BlockAdded{Block: b})
		require.NoError(t, err)
		parent = b.Hash()
	}

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Equal(t, StateCatchUp, r.State())
}

func TestValidateDemotesWhenNotActiveValidator(t *testing.T) {
	r, _, _, _, _, _, consensus := newTestReactor(Config{})
	r.state = StateValidate
	consensus.SetActive(false)

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Equal(t, StateKeepUp, r.State())
}

func TestValidateStaysWhenActiveValidator(t *testing.T) {
	r, _, _, _, _, _, consensus := newTestReactor(Config{})
	r.state = StateValidate
	consensus.SetActive(true)

	outcome := r.Crank()
	require.NoError(t, outcome.Err)
	require.Equal(t, StateValidate, r.State())
}

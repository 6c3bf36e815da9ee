package accumulator

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodecore/reactor-core/internal/testblock"
	"github.com/nodecore/reactor-core/internal/types"
	"github.com/nodecore/reactor-core/internal/weights"
)

func weightsOf(era types.EraId, key types.PublicKey, amount int64) *weights.EraValidatorWeights {
	w := weights.NewEraValidatorWeights(era, map[types.PublicKey]*big.Int{key: big.NewInt(amount)})
	return &w
}

func chainOf(n int) []*testblock.Block {
	blocks := make([]*testblock.Block, n)
	var parent types.BlockHash
	for i := 0; i < n; i++ {
		b := testblock.New(testblock.Header{Era: 1, Ht: uint64(i), Parent: parent})
		blocks[i] = b
		parent = b.Hash()
	}
	return blocks
}

func TestSyncInstructionCaughtUpWhenEmpty(t *testing.T) {
	acc := New(nil, 0)
	instr := acc.SyncInstruction(StartingWithHashValue(types.BlockHash{0x01}))
	require.Equal(t, SyncCaughtUp, instr.Kind)
}

func TestSyncInstructionLeapWhenFarAhead(t *testing.T) {
	acc := New(nil, 5)
	chain := chainOf(20)
	for _, b := range chain {
		_, err := acc.ReceiveBlockAdded(types.BlockAdded{Block: b})
		require.NoError(t, err)
	}

	instr := acc.SyncInstruction(StartingWithBlockValue(chain[0]))
	require.Equal(t, SyncLeap, instr.Kind)
}

func TestSyncInstructionBlockSyncThenExec(t *testing.T) {
	acc := New(func(era types.EraId) *weights.EraValidatorWeights {
		return weightsOf(era, types.NewPublicKey([]byte{0x01}), 10)
	}, 100)

	chain := chainOf(3)
	for _, b := range chain {
		_, err := acc.ReceiveBlockAdded(types.BlockAdded{Block: b})
		require.NoError(t, err)
	}

	instr := acc.SyncInstruction(StartingWithBlockValue(chain[0]))
	require.Equal(t, SyncBlockSync, instr.Kind)
	require.Equal(t, chain[1].Hash(), instr.Hash)
	require.False(t, instr.FetchExecutionState) // starting point is a known local block

	_, err := acc.ReceiveFinalitySignature(types.NewFinalitySignature(chain[1].Hash(), 1, types.NewPublicKey([]byte{0x01}), []byte{0x1}, true))
	require.NoError(t, err)

	instr = acc.SyncInstruction(StartingWithBlockValue(chain[0]))
	require.Equal(t, SyncBlockExec, instr.Kind)
	require.Equal(t, chain[1].Hash(), instr.Block.Hash())
}

func TestSyncInstructionFetchExecutionStateWhenStartingFromHash(t *testing.T) {
	acc := New(nil, 100)
	chain := chainOf(2)
	for _, b := range chain {
		_, err := acc.ReceiveBlockAdded(types.BlockAdded{Block: b})
		require.NoError(t, err)
	}

	instr := acc.SyncInstruction(StartingWithHashValue(chain[0].Hash()))
	require.Equal(t, SyncBlockSync, instr.Kind)
	require.True(t, instr.FetchExecutionState)
}

func TestSyncInstructionCaughtUpAtTip(t *testing.T) {
	acc := New(nil, 100)
	chain := chainOf(2)
	for _, b := range chain {
		_, err := acc.ReceiveBlockAdded(types.BlockAdded{Block: b})
		require.NoError(t, err)
	}

	instr := acc.SyncInstruction(StartingWithBlockValue(chain[1]))
	require.Equal(t, SyncCaughtUp, instr.Kind)
}

func TestForgetPreventsResurrection(t *testing.T) {
	acc := New(nil, 100)
	ba := types.BlockAdded{Block: testblock.New(testblock.Header{Era: 1, Ht: 1})}
	_, err := acc.ReceiveBlockAdded(ba)
	require.NoError(t, err)

	acc.Forget(ba.Block.Hash())
	_, ok := acc.Get(ba.Block.Hash())
	require.False(t, ok)

	ready, err := acc.ReceiveBlockAdded(ba)
	require.NoError(t, err)
	require.False(t, ready)
	_, ok = acc.Get(ba.Block.Hash())
	require.False(t, ok)
}

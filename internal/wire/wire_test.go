package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodecore/reactor-core/internal/testblock"
	"github.com/nodecore/reactor-core/internal/types"
)

func TestBlockRoundTrip(t *testing.T) {
	b := testblock.New(testblock.Header{
		Era:             3,
		Ht:              7,
		NextEra:         4,
		StateRoot:       types.BlockHash{0x01},
		Parent:          types.BlockHash{0x02},
		Seed:            types.BlockHash{0x03},
		Ts:              1700000000,
		ProtocolVersion: 2,
	})

	raw, err := EncodeBlock(b)
	require.NoError(t, err)

	got, err := DecodeBlock(raw)
	require.NoError(t, err)
	require.Equal(t, b.Hash(), got.Hash())
	require.Equal(t, b.Header().EraID(), got.Header().EraID())
	require.Equal(t, b.Header().Height(), got.Header().Height())
	require.Equal(t, b.Header().NextBlockEraID(), got.Header().NextBlockEraID())
	require.Equal(t, b.Header().StateRootHash(), got.Header().StateRootHash())
	require.Equal(t, b.Header().ParentHash(), got.Header().ParentHash())
	require.Equal(t, b.Header().AccumulatedSeed(), got.Header().AccumulatedSeed())
	require.Equal(t, b.Header().Timestamp(), got.Header().Timestamp())
	require.Equal(t, b.Header().ProtocolVersion(), got.Header().ProtocolVersion())
	require.NoError(t, got.Validate())
}

func TestFinalitySignatureRoundTrip(t *testing.T) {
	sig := types.NewFinalitySignature(
		types.BlockHash{0xAA},
		types.EraId(5),
		types.NewPublicKey([]byte("validator-key")),
		[]byte("signature-bytes"),
		true,
	)

	raw, err := EncodeFinalitySignature(sig)
	require.NoError(t, err)

	got, err := DecodeFinalitySignature(raw, true)
	require.NoError(t, err)
	require.Equal(t, sig.BlockHash, got.BlockHash)
	require.Equal(t, sig.EraID, got.EraID)
	require.Equal(t, sig.PublicKey.Bytes(), got.PublicKey.Bytes())
	require.Equal(t, sig.SignatureByte, got.SignatureByte)
	require.True(t, got.IsVerified())
}

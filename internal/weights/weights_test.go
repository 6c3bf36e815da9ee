package weights

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodecore/reactor-core/internal/types"
)

func key(b byte) types.PublicKey { return types.NewPublicKey([]byte{b}) }

// Invariant 6: weight threshold — sufficient iff sum >= ceil(2W/3)+1.
func TestHasSufficientWeightThreshold(t *testing.T) {
	w := NewEraValidatorWeights(1, map[types.PublicKey]*big.Int{
		key(0xA1): big.NewInt(50),
		key(0xB2): big.NewInt(40),
		key(0xC3): big.NewInt(30),
	})
	// total 120, sufficient threshold = ceil(240/3)+1 = 81, weak = ceil(120/3)+1 = 41

	require.Equal(t, Insufficient, w.HasSufficientWeight([]types.PublicKey{key(0xC3)}))                      // 30 < 41 -> Insufficient
	require.Equal(t, Weak, w.HasSufficientWeight([]types.PublicKey{key(0xB2), key(0xC3)}))                  // 70, >=41 and <81 -> Weak
	require.Equal(t, Sufficient, w.HasSufficientWeight([]types.PublicKey{key(0xA1), key(0xB2)}))            // 90 >= 81 -> Sufficient
	require.Equal(t, Sufficient, w.HasSufficientWeight([]types.PublicKey{key(0xA1), key(0xB2), key(0xC3)})) // 120
}

func TestUnknownKeysIgnored(t *testing.T) {
	w := NewEraValidatorWeights(1, map[types.PublicKey]*big.Int{
		key(0xA1): big.NewInt(100),
	})
	require.Equal(t, Sufficient, w.HasSufficientWeight([]types.PublicKey{key(0xA1), key(0xFF)}))
}

func TestBogusValidators(t *testing.T) {
	w := NewEraValidatorWeights(1, map[types.PublicKey]*big.Int{
		key(0xA1): big.NewInt(100),
	})
	bogus := w.BogusValidators([]types.PublicKey{key(0xA1), key(0xFF)})
	require.Len(t, bogus, 1)
	require.Equal(t, key(0xFF), bogus[0])
}

func TestLatchNeverResets(t *testing.T) {
	l := NewLatch(false)
	require.True(t, l.Set(true))
	require.False(t, l.Set(true))
	require.Panics(t, func() { l.Set(false) })
}

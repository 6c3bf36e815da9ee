package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountersAreRegistered(t *testing.T) {
	before := CrankTotal.Count()
	CrankTotal.Inc(1)
	require.Equal(t, before+1, CrankTotal.Count())

	before = WeightThresholdCrossings.Count()
	WeightThresholdCrossings.Inc(1)
	require.Equal(t, before+1, WeightThresholdCrossings.Count())
}

func TestGaugesAreRegistered(t *testing.T) {
	IdleAttempts.Update(3)
	require.EqualValues(t, 3, IdleAttempts.Value())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodecore/reactor-core/internal/reactor"
)

const sampleChainspec = `
[protocol_config]
activation_point = "genesis"
genesis_timestamp = 1900000000

[core_config]
sync_leap_simultaneous_peer_requests = 5

[network_config]
name = "reactor-devnet"

[[era_validator_weights]]
era_id = 0
[era_validator_weights.weights]
"0xabc1" = "50"
"0xdef2" = "40"
`

func writeTempChainspec(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "chainspec.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	path := writeTempChainspec(t, sampleChainspec)

	spec, raw, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.Equal(t, "reactor-devnet", spec.NetworkConfig.Name)
	require.Equal(t, 5, spec.CoreConfig.SyncLeapSimultaneousPeerRequests)

	ap, err := spec.ActivationPoint()
	require.NoError(t, err)
	require.Equal(t, reactor.ActivationGenesis, ap.Kind)
	require.Equal(t, int64(1900000000), ap.GenesisTimestamp.Unix())

	weights, err := spec.EraWeights()
	require.NoError(t, err)
	require.Len(t, weights[0], 2)
}

func TestActivationPointEra(t *testing.T) {
	path := writeTempChainspec(t, `
[protocol_config]
activation_point = "era:42"

[core_config]
sync_leap_simultaneous_peer_requests = 3

[network_config]
name = "reactor-devnet"
`)
	spec, _, err := Load(path)
	require.NoError(t, err)

	ap, err := spec.ActivationPoint()
	require.NoError(t, err)
	require.Equal(t, reactor.ActivationUpgradeEra, ap.Kind)
	require.EqualValues(t, 42, ap.UpgradeEraID)
}

func TestMissingGenesisTimestampIsRejected(t *testing.T) {
	path := writeTempChainspec(t, `
[protocol_config]
activation_point = "genesis"

[core_config]
sync_leap_simultaneous_peer_requests = 3

[network_config]
name = "reactor-devnet"
`)
	spec, _, err := Load(path)
	require.NoError(t, err)

	_, err = spec.ActivationPoint()
	require.Error(t, err)
}

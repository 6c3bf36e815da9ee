// Package config loads the node's chainspec.toml via BurntSushi/toml,
// matching the teacher's reliance on a declarative TOML chainspec for
// protocol, network and validator-weight configuration.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/nodecore/reactor-core/internal/reactor"
	"github.com/nodecore/reactor-core/internal/types"
)

// Chainspec is the raw TOML shape of chainspec.toml.
type Chainspec struct {
	ProtocolConfig      protocolConfig        `toml:"protocol_config"`
	CoreConfig          coreConfig            `toml:"core_config"`
	NetworkConfig       networkConfig         `toml:"network_config"`
	EraValidatorWeights []eraValidatorWeights `toml:"era_validator_weights"`
}

type protocolConfig struct {
	ActivationPoint  string `toml:"activation_point"`
	GenesisTimestamp int64  `toml:"genesis_timestamp"`
}

type coreConfig struct {
	SyncLeapSimultaneousPeerRequests int `toml:"sync_leap_simultaneous_peer_requests"`
}

type networkConfig struct {
	Name string `toml:"name"`
}

type eraValidatorWeights struct {
	EraID   uint64            `toml:"era_id"`
	Weights map[string]string `toml:"weights"`
}

// Load reads and parses a chainspec.toml file from path.
func Load(path string) (*Chainspec, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading chainspec file")
	}

	var spec Chainspec
	if _, err := toml.Decode(string(raw), &spec); err != nil {
		return nil, nil, errors.Wrap(err, "decoding chainspec toml")
	}
	return &spec, raw, nil
}

// ActivationPoint converts the TOML-encoded activation point into the
// reactor package's ActivationPoint value. Accepts "genesis" (paired with
// genesis_timestamp) or "era:<id>".
func (c *Chainspec) ActivationPoint() (reactor.ActivationPoint, error) {
	switch {
	case c.ProtocolConfig.ActivationPoint == "genesis":
		if c.ProtocolConfig.GenesisTimestamp == 0 {
			return reactor.ActivationPoint{}, errors.New("genesis_timestamp is required when activation_point = \"genesis\"")
		}
		return reactor.ActivationPoint{
			Kind:             reactor.ActivationGenesis,
			GenesisTimestamp: time.Unix(c.ProtocolConfig.GenesisTimestamp, 0).UTC(),
		}, nil

	case strings.HasPrefix(c.ProtocolConfig.ActivationPoint, "era:"):
		eraStr := strings.TrimPrefix(c.ProtocolConfig.ActivationPoint, "era:")
		era, err := strconv.ParseUint(eraStr, 10, 64)
		if err != nil {
			return reactor.ActivationPoint{}, errors.Wrap(err, "parsing era activation point")
		}
		return reactor.ActivationPoint{Kind: reactor.ActivationUpgradeEra, UpgradeEraID: types.EraId(era)}, nil

	default:
		return reactor.ActivationPoint{}, fmt.Errorf("config: unrecognized activation_point %q", c.ProtocolConfig.ActivationPoint)
	}
}

// EraWeights converts the TOML-encoded per-era weight tables into
// map[EraId]map[PublicKey]*big.Int, ready for an accumulator.WeightsForEra
// closure to index into.
func (c *Chainspec) EraWeights() (map[types.EraId]map[types.PublicKey]*big.Int, error) {
	out := make(map[types.EraId]map[types.PublicKey]*big.Int, len(c.EraValidatorWeights))
	for _, entry := range c.EraValidatorWeights {
		byKey := make(map[types.PublicKey]*big.Int, len(entry.Weights))
		for hexKey, amount := range entry.Weights {
			raw := strings.TrimPrefix(hexKey, "0x")
			keyBytes, err := decodeHex(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding validator key %q", hexKey)
			}
			weight, ok := new(big.Int).SetString(amount, 10)
			if !ok {
				return nil, fmt.Errorf("config: invalid weight %q for key %q", amount, hexKey)
			}
			byKey[types.NewPublicKey(keyBytes)] = weight
		}
		out[types.EraId(entry.EraID)] = byKey
	}
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		var b byte
		if _, err := fmt.Sscanf(s[i*2:i*2+2], "%02x", &b); err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Command reactor-node runs the reactor control core standalone against
// in-process collaborator stubs, for local development and integration
// testing of the crank loop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/nodecore/reactor-core/internal/accumulator"
	"github.com/nodecore/reactor-core/internal/config"
	"github.com/nodecore/reactor-core/internal/diagnostics"
	"github.com/nodecore/reactor-core/internal/nodestub"
	"github.com/nodecore/reactor-core/internal/reactor"
	"github.com/nodecore/reactor-core/internal/types"
	"github.com/nodecore/reactor-core/internal/weights"
)

var (
	trustedHashFlag = &cli.StringFlag{
		Name:  "trusted-hash",
		Usage: "hex-encoded block hash to catch up from; omit to use local tip",
	}
	idleToleranceFlag = &cli.DurationFlag{
		Name:  "idle-tolerance",
		Usage: "how long the block synchronizer may make no progress before an idle attempt is counted",
		Value: 30 * time.Second,
	}
	maxAttemptsFlag = &cli.IntFlag{
		Name:  "max-attempts",
		Usage: "idle attempts tolerated in CatchUp before shutting down",
		Value: 3,
	}
	waitSecFlag = &cli.Uint64Flag{
		Name:  "wait-sec",
		Usage: "seconds between cranks when no more urgent work is pending",
		Value: reactor.WaitSec,
	}
	chainspecFlag = &cli.StringFlag{
		Name:     "chainspec",
		Usage:    "path to chainspec.toml",
		Required: true,
	}
	diagnosticsSocketFlag = &cli.StringFlag{
		Name:  "diagnostics-socket",
		Usage: "path to the diagnostics port's unix domain socket",
		Value: "reactor.sock",
	}
)

func main() {
	app := &cli.App{
		Name:  "reactor-node",
		Usage: "run the reactor control core against in-process collaborator stubs",
		Flags: []cli.Flag{
			trustedHashFlag,
			idleToleranceFlag,
			maxAttemptsFlag,
			waitSecFlag,
			chainspecFlag,
			diagnosticsSocketFlag,
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("reactor-node exited with error", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	spec, raw, err := config.Load(c.String(chainspecFlag.Name))
	if err != nil {
		return fmt.Errorf("loading chainspec: %w", err)
	}

	activationPoint, err := spec.ActivationPoint()
	if err != nil {
		return fmt.Errorf("resolving activation point: %w", err)
	}

	eraWeights, err := spec.EraWeights()
	if err != nil {
		return fmt.Errorf("resolving era validator weights: %w", err)
	}
	weightsForEra := func(era types.EraId) *weights.EraValidatorWeights {
		byKey, ok := eraWeights[era]
		if !ok {
			return nil
		}
		w := weights.NewEraValidatorWeights(era, byKey)
		return &w
	}

	acc := accumulator.New(weightsForEra, accumulator.DefaultLeapThreshold)

	storage := nodestub.NewMemStorage()
	network := nodestub.NewLocalNetwork()
	blockSync := nodestub.NewStubBlockSynchronizer()
	syncLeaper := nodestub.NewStubSyncLeaper()
	runtime := nodestub.NewStubContractRuntime(types.ZeroHash, types.ZeroHash)
	consensus := nodestub.NewStubConsensus(false)

	var trustedHash *types.BlockHash
	if hex := c.String(trustedHashFlag.Name); hex != "" {
		h, err := types.HashFromHex(hex)
		if err != nil {
			return fmt.Errorf("parsing --trusted-hash: %w", err)
		}
		trustedHash = &h
	}

	cfg := reactor.Config{
		TrustedHash:     trustedHash,
		IdleTolerance:   c.Duration(idleToleranceFlag.Name),
		MaxAttempts:     c.Int(maxAttemptsFlag.Name),
		WaitSec:         c.Uint64(waitSecFlag.Name),
		PeerFanOut:      spec.CoreConfig.SyncLeapSimultaneousPeerRequests,
		ActivationPoint: activationPoint,
		NetworkName:     spec.NetworkConfig.Name,
		RawChainspec:    raw,
	}

	r := reactor.New(acc, storage, network, blockSync, syncLeaper, runtime, consensus, cfg)

	port := diagnostics.New(c.String(diagnosticsSocketFlag.Name), r)
	if err := port.Listen(); err != nil {
		return fmt.Errorf("starting diagnostics port: %w", err)
	}
	defer port.Close()

	stop := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		log.Info("received shutdown signal")
		close(stop)
	}()

	log.Info("reactor-node starting", "network", spec.NetworkConfig.Name)
	return r.Run(stop)
}

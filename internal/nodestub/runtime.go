package nodestub

import (
	"sync"

	"github.com/nodecore/reactor-core/internal/reactor"
	"github.com/nodecore/reactor-core/internal/types"
)

// StubContractRuntime records every commit_genesis/commit_upgrade/
// enqueue_block_for_execution call it receives and answers each commit
// with a caller-supplied post-state hash, so tests can assert on both the
// call sequence and the reactor's reaction to it.
type StubContractRuntime struct {
	mu sync.Mutex

	GenesisPostStateHash types.BlockHash
	UpgradePostStateHash types.BlockHash
	GenesisErr           error
	UpgradeErr           error

	GenesisCalls []([]byte)
	UpgradeCalls []reactor.UpgradeConfig
	InitialState []reactor.ExecutionPreState
	Enqueued     []reactor.FinalizedBlock
}

// NewStubContractRuntime builds a runtime stub that succeeds with the
// given post-state hashes unless overridden.
func NewStubContractRuntime(genesisHash, upgradeHash types.BlockHash) *StubContractRuntime {
	return &StubContractRuntime{GenesisPostStateHash: genesisHash, UpgradePostStateHash: upgradeHash}
}

func (s *StubContractRuntime) CommitGenesis(rawChainspec []byte) (reactor.CommitGenesisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GenesisCalls = append(s.GenesisCalls, rawChainspec)
	if s.GenesisErr != nil {
		return reactor.CommitGenesisResult{}, s.GenesisErr
	}
	return reactor.CommitGenesisResult{PostStateHash: s.GenesisPostStateHash}, nil
}

func (s *StubContractRuntime) CommitUpgrade(cfg reactor.UpgradeConfig) (reactor.CommitUpgradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpgradeCalls = append(s.UpgradeCalls, cfg)
	if s.UpgradeErr != nil {
		return reactor.CommitUpgradeResult{}, s.UpgradeErr
	}
	return reactor.CommitUpgradeResult{PostStateHash: s.UpgradePostStateHash}, nil
}

func (s *StubContractRuntime) SetInitialState(pre reactor.ExecutionPreState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InitialState = append(s.InitialState, pre)
}

func (s *StubContractRuntime) EnqueueBlockForExecution(fb reactor.FinalizedBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enqueued = append(s.Enqueued, fb)
}

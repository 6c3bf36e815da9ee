// Package nodestub provides minimal, swappable in-memory collaborators
// satisfying the reactor package's interfaces, so the crank loop can be
// exercised in tests and by cmd/reactor-node without a real network,
// storage engine or contract runtime behind it.
package nodestub

import (
	"sync"

	"github.com/nodecore/reactor-core/internal/types"
)

// MemStorage is an in-memory Storage collaborator: a hash-keyed block map
// plus a tracked highest block.
type MemStorage struct {
	mu      sync.RWMutex
	blocks  map[types.BlockHash]types.Block
	highest types.Block
}

// NewMemStorage builds an empty store.
func NewMemStorage() *MemStorage {
	return &MemStorage{blocks: make(map[types.BlockHash]types.Block)}
}

// Put records a block and advances the highest pointer if it extends the
// known tip by height.
func (s *MemStorage) Put(b types.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[b.Hash()] = b
	if s.highest == nil || b.Header().Height() > s.highest.Header().Height() {
		s.highest = b
	}
}

// ReadBlock returns (nil, nil) for an unknown hash; MemStorage never fails.
func (s *MemStorage) ReadBlock(hash types.BlockHash) (types.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[hash], nil
}

// HighestBlock reports the tallest block Put has recorded.
func (s *MemStorage) HighestBlock() (types.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.highest == nil {
		return nil, false
	}
	return s.highest, true
}

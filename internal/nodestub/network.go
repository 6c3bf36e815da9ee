package nodestub

import (
	"math/rand"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/reactor"
	"github.com/nodecore/reactor-core/internal/types"
	"github.com/nodecore/reactor-core/internal/wire"
)

// LocalNetwork is a static-peer-list Network collaborator: PeersRandomVec
// returns a random sample, and every gossip broadcast is recorded for
// test assertions rather than sent anywhere.
type LocalNetwork struct {
	mu    sync.Mutex
	peers []reactor.NodeID
	sent  []any
}

// NewLocalNetwork builds a network seeded with the given static peer set.
func NewLocalNetwork(peers ...reactor.NodeID) *LocalNetwork {
	return &LocalNetwork{peers: peers}
}

// PeersRandomVec returns up to n peers drawn from the static set without
// replacement.
func (n *LocalNetwork) PeersRandomVec(count int) []reactor.NodeID {
	n.mu.Lock()
	defer n.mu.Unlock()

	if count > len(n.peers) {
		count = len(n.peers)
	}
	shuffled := make([]reactor.NodeID, len(n.peers))
	copy(shuffled, n.peers)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:count]
}

// Broadcast records a gossip payload for later inspection by tests; a real
// network collaborator would fan it out to peers instead. Block bodies and
// finality signatures are round-tripped through the gossip wire codec
// first, the same way a real network collaborator would serialize them
// before handing them to a peer connection.
func (n *LocalNetwork) Broadcast(payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, roundTripWire(payload))
}

func roundTripWire(payload any) any {
	switch v := payload.(type) {
	case types.BlockAdded:
		raw, err := wire.EncodeBlock(v.Block)
		if err != nil {
			log.Warn("gossip block encode failed", "err", err)
			return payload
		}
		block, err := wire.DecodeBlock(raw)
		if err != nil {
			log.Warn("gossip block decode failed", "err", err)
			return payload
		}
		return types.BlockAdded{Block: block, Proofs: v.Proofs}

	case types.FinalitySignature:
		raw, err := wire.EncodeFinalitySignature(v)
		if err != nil {
			log.Warn("gossip signature encode failed", "err", err)
			return payload
		}
		sig, err := wire.DecodeFinalitySignature(raw, v.IsVerified())
		if err != nil {
			log.Warn("gossip signature decode failed", "err", err)
			return payload
		}
		return sig

	default:
		return payload
	}
}

// Sent returns every payload handed to Broadcast so far.
func (n *LocalNetwork) Sent() []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]any, len(n.sent))
	copy(out, n.sent)
	return out
}

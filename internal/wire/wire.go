// Package wire implements the gossip wire codec: RLP encoding and decoding
// of block bodies and finality signatures exchanged between peers. This
// mirrors the teacher's own reliance on RLP for every wire-level message
// (consensus/oasys's vote envelope, devp2p protocol messages throughout
// eth/), rather than inventing a bespoke framing for gossip payloads.
package wire

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/nodecore/reactor-core/internal/types"
)

// blockHeaderRLP is the concrete, RLP-encodable shape of a block header.
// types.Header is an interface — a real node's header type satisfies it —
// so the wire codec needs its own concrete struct to (de)serialize.
type blockHeaderRLP struct {
	EraID           uint64
	Height          uint64
	NextBlockEraID  uint64
	StateRootHash   types.BlockHash
	ParentHash      types.BlockHash
	AccumulatedSeed types.BlockHash
	Timestamp       uint64
	ProtocolVersion uint32
}

type blockRLP struct {
	Hash   types.BlockHash
	Header blockHeaderRLP
}

// EncodeBlock serializes a block's self-reported hash and header fields
// into RLP bytes suitable for gossip.
func EncodeBlock(b types.Block) ([]byte, error) {
	h := b.Header()
	return rlp.EncodeToBytes(blockRLP{
		Hash: b.Hash(),
		Header: blockHeaderRLP{
			EraID:           uint64(h.EraID()),
			Height:          h.Height(),
			NextBlockEraID:  uint64(h.NextBlockEraID()),
			StateRootHash:   h.StateRootHash(),
			ParentHash:      h.ParentHash(),
			AccumulatedSeed: h.AccumulatedSeed(),
			Timestamp:       h.Timestamp(),
			ProtocolVersion: h.ProtocolVersion(),
		},
	})
}

// wireHeader and wireBlock let a decoded blockRLP stand in as a
// types.Header/types.Block without a real node's own block type.
type wireHeader struct{ r blockHeaderRLP }

func (w wireHeader) EraID() types.EraId          { return types.EraId(w.r.EraID) }
func (w wireHeader) Height() uint64              { return w.r.Height }
func (w wireHeader) NextBlockEraID() types.EraId { return types.EraId(w.r.NextBlockEraID) }
func (w wireHeader) StateRootHash() types.BlockHash    { return w.r.StateRootHash }
func (w wireHeader) ParentHash() types.BlockHash       { return w.r.ParentHash }
func (w wireHeader) AccumulatedSeed() types.BlockHash  { return w.r.AccumulatedSeed }
func (w wireHeader) Timestamp() uint64                 { return w.r.Timestamp }
func (w wireHeader) ProtocolVersion() uint32           { return w.r.ProtocolVersion }

type wireBlock struct {
	hash types.BlockHash
	hdr  wireHeader
}

func (b wireBlock) Hash() types.BlockHash { return b.hash }
func (b wireBlock) Header() types.Header  { return b.hdr }

// Validate always succeeds: a wire-decoded block carries the hash its
// sender reported, and the codec does not recompute or check it against
// the header.
func (b wireBlock) Validate() error { return nil }

// DecodeBlock deserializes RLP bytes produced by EncodeBlock.
func DecodeBlock(data []byte) (types.Block, error) {
	var r blockRLP
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, err
	}
	return wireBlock{hash: r.Hash, hdr: wireHeader{r: r.Header}}, nil
}

// finalitySignatureRLP is the concrete RLP wire shape of a finality
// signature. types.FinalitySignature keeps its verified flag unexported
// (wire data is never self-certifying), so the codec only carries the
// fields a peer actually puts on the wire.
type finalitySignatureRLP struct {
	BlockHash types.BlockHash
	EraID     uint64
	PublicKey []byte
	Signature []byte
}

// EncodeFinalitySignature serializes sig into RLP bytes suitable for
// gossip.
func EncodeFinalitySignature(sig types.FinalitySignature) ([]byte, error) {
	return rlp.EncodeToBytes(finalitySignatureRLP{
		BlockHash: sig.BlockHash,
		EraID:     uint64(sig.EraID),
		PublicKey: sig.PublicKey.Bytes(),
		Signature: sig.SignatureByte,
	})
}

// DecodeFinalitySignature deserializes RLP bytes produced by
// EncodeFinalitySignature. verified must reflect cryptographic
// verification performed by the caller — decoding the wire bytes never
// asserts validity on its own, matching types.NewFinalitySignature's
// contract.
func DecodeFinalitySignature(data []byte, verified bool) (types.FinalitySignature, error) {
	var r finalitySignatureRLP
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return types.FinalitySignature{}, err
	}
	return types.NewFinalitySignature(r.BlockHash, types.EraId(r.EraID), types.NewPublicKey(r.PublicKey), r.Signature, verified), nil
}

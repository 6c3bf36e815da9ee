package types

import "errors"

// ErrBlockHashMismatch is returned by Block.Validate when the block's
// self-reported hash does not match the hash of its header.
var ErrBlockHashMismatch = errors.New("types: block hash does not match header")

// ErrMalformedHeader is returned by Block.Validate when a header fails its
// own well-formedness checks (e.g. a zero timestamp on a non-genesis block).
var ErrMalformedHeader = errors.New("types: malformed block header")

// Header is the subset of block-header accessors the reactor control core
// needs. A full node's header type satisfies this incidentally.
type Header interface {
	EraID() EraId
	Height() uint64
	NextBlockEraID() EraId
	StateRootHash() BlockHash
	ParentHash() BlockHash
	AccumulatedSeed() BlockHash
	Timestamp() uint64
	ProtocolVersion() uint32
}

// Block exposes the accessors the accumulator and reactor need from a
// gossiped block body. Validate must succeed (hash matches header, header
// well-formed) before a Block may be accepted by a BlockAcceptor.
type Block interface {
	Hash() BlockHash
	Header() Header
	Validate() error
}

// Proof is an opaque collaborator-defined proof accompanying a gossiped
// block (e.g. an equivocation proof, or a light-client membership proof).
// The accumulator does not interpret proofs; it only carries them.
type Proof interface{}

// BlockAdded is a gossiped block body together with its proofs.
type BlockAdded struct {
	Block  Block
	Proofs []Proof
}

// Validate re-checks self-consistency: the block's hash must match its
// header, and the header must be internally well-formed. A BlockAdded that
// fails validation is never accepted into a BlockAcceptor.
func (b BlockAdded) Validate() error {
	if b.Block == nil {
		return ErrMalformedHeader
	}
	return b.Block.Validate()
}

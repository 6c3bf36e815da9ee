// Package testblock provides a minimal, deterministic Block/Header
// implementation used across this module's test suites. It is not part of
// the product surface; a real node supplies its own Block/Header types that
// satisfy the same interfaces.
package testblock

import (
	"encoding/binary"

	"github.com/nodecore/reactor-core/internal/types"
)

// Header is a plain struct implementation of types.Header.
type Header struct {
	Era             types.EraId
	Ht              uint64
	NextEra         types.EraId
	StateRoot       types.BlockHash
	Parent          types.BlockHash
	Seed            types.BlockHash
	Ts              uint64
	ProtocolVersion uint32
}

func (h Header) EraID() types.EraId               { return h.Era }
func (h Header) Height() uint64                   { return h.Ht }
func (h Header) NextBlockEraID() types.EraId       { return h.NextEra }
func (h Header) StateRootHash() types.BlockHash    { return h.StateRoot }
func (h Header) ParentHash() types.BlockHash       { return h.Parent }
func (h Header) AccumulatedSeed() types.BlockHash  { return h.Seed }
func (h Header) Timestamp() uint64                 { return h.Ts }
func (h Header) ProtocolVersion() uint32           { return h.ProtocolVersion }

// Block is a deterministic, content-addressed Block implementation: its
// hash is derived from the header fields, so two Blocks built with the same
// Header always hash identically.
type Block struct {
	Hdr   Header
	valid bool
}

// New builds a well-formed Block from hdr.
func New(hdr Header) *Block {
	return &Block{Hdr: hdr, valid: true}
}

// Invalid builds a Block that always fails Validate, for exercising the
// InvalidBlockAdded error path.
func Invalid(hdr Header) *Block {
	return &Block{Hdr: hdr, valid: false}
}

func (b *Block) Header() types.Header { return b.Hdr }

func (b *Block) Hash() types.BlockHash {
	buf := make([]byte, 0, 96)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Hdr.Era))
	buf = binary.BigEndian.AppendUint64(buf, b.Hdr.Ht)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Hdr.NextEra))
	buf = append(buf, b.Hdr.StateRoot[:]...)
	buf = append(buf, b.Hdr.Parent[:]...)
	return types.Keccak256(buf)
}

func (b *Block) Validate() error {
	if !b.valid {
		return types.ErrMalformedHeader
	}
	return nil
}

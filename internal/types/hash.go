// Package types defines the data model shared by the block gossip
// accumulator and the reactor control loop: block hashes, era ids,
// validator public keys, finality signatures and gossiped blocks.
package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashLength is the number of bytes in a BlockHash.
const HashLength = 32

// BlockHash is the opaque content hash of a block. It is totally ordered by
// byte comparison and used as the primary key throughout the accumulator.
type BlockHash [HashLength]byte

// ZeroHash is the hash of the (non-existent) parent of a genesis block.
var ZeroHash BlockHash

// BytesToHash right-aligns b into a BlockHash, truncating from the left if
// b is longer than HashLength.
func BytesToHash(b []byte) BlockHash {
	var h BlockHash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HashFromHex parses a 0x-prefixed (or bare) hex string into a BlockHash.
func HashFromHex(s string) (BlockHash, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return BlockHash{}, fmt.Errorf("types: invalid hash hex %q: %w", s, err)
	}
	if len(b) != HashLength {
		return BlockHash{}, fmt.Errorf("types: hash %q has %d bytes, want %d", s, len(b), HashLength)
	}
	var h BlockHash
	copy(h[:], b)
	return h, nil
}

func (h BlockHash) Bytes() []byte { return h[:] }

func (h BlockHash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h BlockHash) String() string { return h.Hex() }

func (h BlockHash) IsZero() bool { return h == ZeroHash }

// Cmp implements the total order over block hashes required for
// deterministic iteration and the "higher of trusted/local tip" comparison
// in the catch-up evaluator.
func (h BlockHash) Cmp(other BlockHash) int {
	return bytes.Compare(h[:], other[:])
}

// Format satisfies fmt.Formatter so BlockHash prints sensibly in log lines
// built with the structured %v / %s verbs.
func (h BlockHash) Format(s fmt.State, c rune) {
	fmt.Fprint(s, h.Hex())
}

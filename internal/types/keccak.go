package types

import "golang.org/x/crypto/sha3"

// Keccak256 hashes the concatenation of data with Keccak-256, the hash
// function block headers are hashed with throughout this module's
// ethereum lineage (mirrors consensus/oasys's own
// sha3.NewLegacyKeccak256 header hasher).
func Keccak256(data ...[]byte) BlockHash {
	hasher := sha3.NewLegacyKeccak256()
	for _, b := range data {
		hasher.Write(b)
	}
	return BytesToHash(hasher.Sum(nil))
}

package types

// FinalitySignature is a validator's attestation that a given block hash is
// the block at its height in its era. Verification itself is delegated to
// the consensus collaborator; this type only carries the verified flag that
// collaborator attaches.
type FinalitySignature struct {
	BlockHash     BlockHash
	EraID         EraId
	PublicKey     PublicKey
	SignatureByte []byte

	verified bool
}

// NewFinalitySignature constructs a signature. verified must reflect the
// outcome of cryptographic verification performed upstream of this module;
// the accumulator never re-derives it.
func NewFinalitySignature(hash BlockHash, era EraId, pubKey PublicKey, sig []byte, verified bool) FinalitySignature {
	raw := make([]byte, len(sig))
	copy(raw, sig)
	return FinalitySignature{
		BlockHash:     hash,
		EraID:         era,
		PublicKey:     pubKey,
		SignatureByte: raw,
		verified:      verified,
	}
}

// IsVerified reports whether this signature passed cryptographic
// verification. The acceptor rejects any signature for which this is false.
func (s FinalitySignature) IsVerified() bool { return s.verified }

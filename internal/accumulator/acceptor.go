package accumulator

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/nodecore/reactor-core/internal/types"
	"github.com/nodecore/reactor-core/internal/weights"
)

// BlockAcceptor aggregates a single gossiped block body and its finality
// signatures, gated by per-era validator weights, and latches an
// irreversible "executable" signal once signature weight crosses the
// chainspec threshold for the block's era. One acceptor exists per known
// block hash; it is created on first gossip arrival and is never destroyed
// by the accumulator itself.
type BlockAcceptor struct {
	blockHash  types.BlockHash
	eraID      types.EraId
	blockAdded *types.BlockAdded
	signatures map[string]types.FinalitySignature
	canExecute *weights.Latch
}

// NewFromBlockAdded seeds an acceptor from a gossiped block body. The block
// is validated before acceptance; an invalid block never creates state.
func NewFromBlockAdded(ba types.BlockAdded) (*BlockAcceptor, error) {
	if err := ba.Validate(); err != nil {
		log.Warn("received invalid block-added", "err", err)
		return nil, &InvalidBlockAddedError{Cause: err}
	}
	return &BlockAcceptor{
		blockHash:  ba.Block.Hash(),
		eraID:      ba.Block.Header().EraID(),
		blockAdded: &ba,
		signatures: make(map[string]types.FinalitySignature),
		canExecute: weights.NewLatch(false),
	}, nil
}

// NewFromFinalitySignature seeds an acceptor from a gossiped finality
// signature, before any block body has arrived for its hash. If w is
// supplied its era must match the signature's era.
func NewFromFinalitySignature(sig types.FinalitySignature, w *weights.EraValidatorWeights) (*BlockAcceptor, error) {
	if !sig.IsVerified() {
		log.Warn("received invalid finality signature")
		return nil, &InvalidFinalitySignatureError{}
	}
	if w != nil && w.EraID() != sig.EraID {
		log.Error("validator weights of different era than finality signature provided",
			"block_era", sig.EraID, "validator_weights_era", w.EraID())
		return nil, &WrongEraWeightsError{BlockEra: sig.EraID, ValidatorWeightsEra: w.EraID()}
	}
	signatures := make(map[string]types.FinalitySignature, 1)
	signatures[sig.PublicKey.MapKey()] = sig
	return &BlockAcceptor{
		blockHash:  sig.BlockHash,
		eraID:      sig.EraID,
		signatures: signatures,
		canExecute: weights.NewLatch(false),
	}, nil
}

// BlockHash returns the hash this acceptor aggregates state for. It never
// changes after construction.
func (a *BlockAcceptor) BlockHash() types.BlockHash { return a.blockHash }

// EraID returns the acceptor's known era. An acceptor seeded from a
// finality signature takes that signature's era; RegisterBlock replaces it
// with the block's own era when the body arrives.
func (a *BlockAcceptor) EraID() types.EraId { return a.eraID }

// HasBlock reports whether a block body has been registered yet.
func (a *BlockAcceptor) HasBlock() bool { return a.blockAdded != nil }

// Block returns the registered block, if any.
func (a *BlockAcceptor) Block() types.Block {
	if a.blockAdded == nil {
		return nil
	}
	return a.blockAdded.Block
}

// BlockHeightEra returns (era, height) if a block body has been registered.
func (a *BlockAcceptor) BlockHeightEra() (types.EraId, uint64, bool) {
	if a.blockAdded == nil {
		return 0, 0, false
	}
	return a.eraID, a.blockAdded.Block.Header().Height(), true
}

// RegisterSignature merges sig into the acceptor's signature set. It
// returns true only on the edge-transition that made the block executable
// — callers use that to fire exactly one "ready" effect per acceptor.
func (a *BlockAcceptor) RegisterSignature(sig types.FinalitySignature, w *weights.EraValidatorWeights) (bool, error) {
	if a.blockAdded != nil && a.blockAdded.Block.Header().EraID() != sig.EraID {
		log.Warn("received finality signature with invalid era", "block_hash", a.blockHash)
		return false, &FinalitySignatureWithWrongEraError{CorrectEra: a.blockAdded.Block.Header().EraID()}
	}

	couldExecute := a.canExecuteLocked(w)
	a.signatures[sig.PublicKey.MapKey()] = sig
	canExecuteNow := a.canExecuteLocked(w)
	return canExecuteNow && !couldExecute, nil
}

// RegisterBlock merges a block body into the acceptor. Duplicate gossip of
// an already-known block is not an error: it returns (false, nil) and
// leaves state untouched.
func (a *BlockAcceptor) RegisterBlock(ba types.BlockAdded, w *weights.EraValidatorWeights) (bool, error) {
	if a.blockAdded != nil {
		log.Debug("received duplicate block-added", "block_hash", ba.Block.Hash())
		return false, nil
	}

	if err := ba.Validate(); err != nil {
		log.Warn("received invalid block", "err", err)
		return false, &InvalidBlockAddedError{Cause: err}
	}

	blockEra := ba.Block.Header().EraID()
	for key, sig := range a.signatures {
		if sig.EraID != blockEra {
			delete(a.signatures, key)
		}
	}

	couldExecute := a.canExecuteLocked(w)
	a.blockAdded = &ba
	a.eraID = blockEra
	canExecuteNow := a.canExecuteLocked(w)
	return canExecuteNow && !couldExecute, nil
}

// CanExecute reports whether this acceptor's block may be handed to the
// contract runtime for local execution. The getter itself performs the
// one-shot latch transition: the first call that observes sufficient
// weight is the call that flips the latch, matching §9's documented
// "mutable getter" behavior of the reference implementation.
func (a *BlockAcceptor) CanExecute(w *weights.EraValidatorWeights) bool {
	return a.canExecuteLocked(w)
}

func (a *BlockAcceptor) canExecuteLocked(w *weights.EraValidatorWeights) bool {
	if a.canExecute.Get() {
		return true
	}
	if a.blockAdded == nil || w == nil {
		return false
	}
	if w.HasSufficientWeight(a.signatureKeys()) == weights.Sufficient {
		a.canExecute.Set(true)
	}
	return a.canExecute.Get()
}

func (a *BlockAcceptor) signatureKeys() []types.PublicKey {
	keys := make([]types.PublicKey, 0, len(a.signatures))
	for _, sig := range a.signatures {
		keys = append(keys, sig.PublicKey)
	}
	return keys
}

// PruneBogusValidators removes signatures whose signer is not present in
// w's validator set. This is a storage-size optimization, not a
// correctness requirement — HasSufficientWeight already ignores unknown
// signers — so callers should only invoke it when acceptor memory must be
// bounded.
func (a *BlockAcceptor) PruneBogusValidators(w weights.EraValidatorWeights) []types.PublicKey {
	bogus := w.BogusValidators(a.signatureKeys())
	for _, pk := range bogus {
		log.Debug("pruning bogus validator", "public_key", pk)
		delete(a.signatures, pk.MapKey())
	}
	return bogus
}

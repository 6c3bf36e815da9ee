package accumulator

import (
	"fmt"

	"github.com/nodecore/reactor-core/internal/types"
)

// InvalidBlockAddedError reports that a gossiped block failed its own
// self-consistency check (hash/header mismatch, malformed header).
type InvalidBlockAddedError struct {
	Cause error
}

func (e *InvalidBlockAddedError) Error() string {
	return fmt.Sprintf("invalid block-added: %v", e.Cause)
}

func (e *InvalidBlockAddedError) Unwrap() error { return e.Cause }

// InvalidFinalitySignatureError reports that a gossiped signature failed
// cryptographic verification.
type InvalidFinalitySignatureError struct{}

func (e *InvalidFinalitySignatureError) Error() string {
	return "invalid finality signature"
}

// WrongEraWeightsError reports that the EraValidatorWeights snapshot
// supplied to a register call belongs to a different era than the
// signature or block it was supplied alongside — a caller bug.
type WrongEraWeightsError struct {
	BlockEra            types.EraId
	ValidatorWeightsEra types.EraId
}

func (e *WrongEraWeightsError) Error() string {
	return fmt.Sprintf("validator weights of era %d supplied for era %d", e.ValidatorWeightsEra, e.BlockEra)
}

// FinalitySignatureWithWrongEraError reports that a signature's era
// disagrees with the era of the block already known to the acceptor. The
// signature is dropped; it is never stored.
type FinalitySignatureWithWrongEraError struct {
	CorrectEra types.EraId
}

func (e *FinalitySignatureWithWrongEraError) Error() string {
	return fmt.Sprintf("finality signature has the wrong era, expected %d", e.CorrectEra)
}

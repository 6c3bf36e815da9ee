package weights

import (
	"math/big"

	"github.com/nodecore/reactor-core/internal/types"
)

// SignatureWeight classifies the aggregate weight a set of signatures
// represents against an era's total validator weight.
type SignatureWeight int

const (
	// Insufficient means the signer set's weight sum is below the weak
	// threshold.
	Insufficient SignatureWeight = iota
	// Weak means the signer set's weight sum crosses ⌈total/3⌉+1 but not
	// the strict-majority threshold. Used for early "this looks likely to
	// finalize" heuristics; it never flips an acceptor executable on its
	// own.
	Weak
	// Sufficient means the signer set's weight sum crosses ⌈2·total/3⌉+1,
	// the strict validator-majority threshold required to execute a block
	// locally.
	Sufficient
)

func (w SignatureWeight) String() string {
	switch w {
	case Insufficient:
		return "Insufficient"
	case Weak:
		return "Weak"
	case Sufficient:
		return "Sufficient"
	default:
		return "Unknown"
	}
}

// EraValidatorWeights is an immutable snapshot of the weight every
// validator held during a specific era. It is passed by value into the
// accumulator's calls and never mutated in place.
type EraValidatorWeights struct {
	era     types.EraId
	weights map[string]*big.Int // PublicKey.MapKey() -> weight
	keys    map[string]types.PublicKey
	total   *big.Int
}

// NewEraValidatorWeights builds a snapshot for era from a key->weight map.
// The map is copied defensively so later mutation by the caller cannot
// corrupt a snapshot already handed to the accumulator.
func NewEraValidatorWeights(era types.EraId, byKey map[types.PublicKey]*big.Int) EraValidatorWeights {
	w := EraValidatorWeights{
		era:     era,
		weights: make(map[string]*big.Int, len(byKey)),
		keys:    make(map[string]types.PublicKey, len(byKey)),
		total:   new(big.Int),
	}
	for pk, weight := range byKey {
		cp := new(big.Int).Set(weight)
		w.weights[pk.MapKey()] = cp
		w.keys[pk.MapKey()] = pk
		w.total.Add(w.total, cp)
	}
	return w
}

// EraID returns the era this snapshot applies to.
func (w EraValidatorWeights) EraID() types.EraId { return w.era }

// Total returns the sum of every validator's weight in this era.
func (w EraValidatorWeights) Total() *big.Int { return new(big.Int).Set(w.total) }

// sufficientThreshold is ⌈2·total/3⌉+1.
func (w EraValidatorWeights) sufficientThreshold() *big.Int {
	return ceilDivAddOne(new(big.Int).Mul(w.total, big.NewInt(2)), big.NewInt(3))
}

// weakThreshold is ⌈total/3⌉+1.
func (w EraValidatorWeights) weakThreshold() *big.Int {
	return ceilDivAddOne(new(big.Int).Set(w.total), big.NewInt(3))
}

func ceilDivAddOne(numerator, denominator *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.DivMod(numerator, denominator, r)
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Add(q, big.NewInt(1))
}

// HasSufficientWeight sums the weights of the supplied keys, ignoring any
// key unknown to this era, and classifies the sum.
func (w EraValidatorWeights) HasSufficientWeight(keys []types.PublicKey) SignatureWeight {
	sum := new(big.Int)
	for _, k := range keys {
		if weight, ok := w.weights[k.MapKey()]; ok {
			sum.Add(sum, weight)
		}
	}
	switch {
	case sum.Cmp(w.sufficientThreshold()) >= 0:
		return Sufficient
	case sum.Cmp(w.weakThreshold()) >= 0:
		return Weak
	default:
		return Insufficient
	}
}

// BogusValidators returns the subset of keys this era's weight map does not
// recognize. It is used by the optional bogus-validator pruning policy, not
// by the core weight classifier (which silently ignores unknown signers).
func (w EraValidatorWeights) BogusValidators(keys []types.PublicKey) []types.PublicKey {
	var bogus []types.PublicKey
	for _, k := range keys {
		if _, ok := w.weights[k.MapKey()]; !ok {
			bogus = append(bogus, k)
		}
	}
	return bogus
}

package pratt

import "math/big"

// FactorSource supplies candidate prime divisors for cofactors encountered
// while building a certificate.
//
// Candidates(n) returns integers to test as divisors of n. The generator
// filters: a candidate that does not divide the cofactor is skipped, never an
// error. Verification relies on this permissive filtering, since it hands an
// entire certificate's key set back in as one oversized pool.
type FactorSource interface {
	Candidates(n *big.Int) []*big.Int
}

// Pool is a fixed, reusable candidate pool. The same sequence is consulted
// for every cofactor encountered during one generation.
//
// Candidates are normalized at construction: deduplicated and sorted
// ascending, which is what makes factor discovery order deterministic.
type Pool struct {
	candidates []*big.Int
}

// NewPool validates and normalizes a candidate pool. Every value must be an
// integer greater than 1; the pool may otherwise contain arbitrary candidates,
// including values that will never divide any cofactor.
func NewPool(candidates []*big.Int) (*Pool, error) {
	norm := make([]*big.Int, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Cmp(one) <= 0 {
			return nil, newError(KindInvalidInput, "PRATT-IN-031", "every factor candidate must be an integer greater than 1")
		}
		if _, dup := seen[c.String()]; dup {
			continue
		}
		seen[c.String()] = struct{}{}
		norm = append(norm, new(big.Int).Set(c))
	}
	sortInts(norm)
	return &Pool{candidates: norm}, nil
}

// Candidates returns the normalized pool; the cofactor is ignored.
func (p *Pool) Candidates(n *big.Int) []*big.Int {
	_ = n
	return copyInts(p.candidates)
}

// FactorFunc adapts a factorization callable to the FactorSource interface.
// It is invoked fresh for each cofactor.
type FactorFunc func(n *big.Int) []*big.Int

func (f FactorFunc) Candidates(n *big.Int) []*big.Int { return f(n) }

func sortInts(xs []*big.Int) {
	for i := 1; i < len(xs); i++ {
		x := xs[i]
		j := i - 1
		for j >= 0 && xs[j].Cmp(x) > 0 {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = x
	}
}

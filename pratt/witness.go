package pratt

import "math/big"

// findWitness searches for a primitive-root witness for p given the distinct
// prime factors of p-1.
//
// Bases are tried deterministically from 2 upward; the first success wins.
// There is no attempt at a canonical minimal witness beyond "smallest base
// tried that works", which is exactly what makes regeneration deterministic
// and equality-based verification sound.
//
// A base g is a witness when g^(p-1) = 1 (mod p) and g^((p-1)/q) != 1 (mod p)
// for every distinct prime factor q of p-1. A base failing the Fermat
// condition hints at compositeness but does not prove it under this contract,
// so the search simply moves on. Exhausting all bases below p is only
// possible when p is composite or the factor list is wrong; that surfaces as
// a KindNoWitness error.
func findWitness(p *big.Int, factors []*big.Int) (*big.Int, error) {
	cofactor := new(big.Int).Sub(p, one)
	exp := new(big.Int)
	residue := new(big.Int)
	for g := big.NewInt(2); g.Cmp(p) < 0; g.Add(g, one) {
		if residue.Exp(g, cofactor, p).Cmp(one) != 0 {
			continue
		}
		witness := true
		for _, q := range factors {
			exp.Div(cofactor, q)
			if residue.Exp(g, exp, p).Cmp(one) == 0 {
				witness = false
				break
			}
		}
		if witness {
			return new(big.Int).Set(g), nil
		}
	}
	return nil, newError(KindNoWitness, "PRATT-WIT-001",
		"no primitive-root witness exists for "+p.String())
}

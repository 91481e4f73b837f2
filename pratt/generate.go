package pratt

import "math/big"

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Generate builds a complete Pratt certificate for candidate.
//
// The certificate covers candidate and every prime appearing transitively in
// its proof chain. Each distinct prime is certified at most once no matter how
// often it recurs as a factor elsewhere in the chain.
//
// Failures surface immediately; no partial certificate is ever returned:
//   - KindInvalidInput: candidate is nil or not greater than 1, or source is nil.
//   - KindFactorSource: some p-1 in the chain could not be fully factored from
//     the source's candidates.
//   - KindNoWitness: no primitive-root witness exists for some prime in the
//     chain, meaning the candidate is composite or the source supplied a
//     composite "factor".
func Generate(candidate *big.Int, source FactorSource) (*Certificate, error) {
	if candidate == nil || candidate.Cmp(one) <= 0 {
		return nil, newError(KindInvalidInput, "PRATT-IN-001", "candidate must be an integer greater than 1")
	}
	if source == nil {
		return nil, newError(KindInvalidInput, "PRATT-IN-010", "factor source is required")
	}

	// frame is one prime being certified. Factors of p-1 are resolved before
	// any child is pushed; children are certified depth-first, and only once
	// all of them are in the memo does p's own witness search run.
	type frame struct {
		p        *big.Int
		factors  []*big.Int
		resolved bool
		next     int
	}

	memo := make(map[string][]*big.Int)
	var entries []Entry

	// Explicit stack rather than call recursion: depth is bounded by the
	// number of distinct primes in the chain, but cryptographic-size
	// candidates are expected and goroutine stacks are not.
	stack := []*frame{{p: new(big.Int).Set(candidate)}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		key := f.p.String()
		if _, done := memo[key]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		if f.p.Cmp(two) == 0 {
			memo[key] = []*big.Int{}
			entries = append(entries, Entry{Prime: f.p, Factors: nil})
			stack = stack[:len(stack)-1]
			continue
		}

		if !f.resolved {
			factors, err := distinctFactors(f.p, source)
			if err != nil {
				return nil, err
			}
			f.factors = factors
			f.resolved = true
		}

		if f.next < len(f.factors) {
			q := f.factors[f.next]
			f.next++
			if _, done := memo[q.String()]; !done {
				stack = append(stack, &frame{p: q})
			}
			continue
		}

		// Every q is now a certified, memoized prime; p's witness search can
		// rely on the factor list being complete and individually validated.
		if _, err := findWitness(f.p, f.factors); err != nil {
			return nil, err
		}
		memo[key] = f.factors
		entries = append(entries, Entry{Prime: f.p, Factors: f.factors})
		stack = stack[:len(stack)-1]
	}

	return NewCertificate(entries)
}

// distinctFactors extracts the distinct prime factor candidates of p-1 from
// the source, in discovery order.
//
// Candidates are tested against the shrinking residue of p-1: an accepted
// candidate is divided out completely before the next is considered.
// Candidates that do not divide the residue (or are not greater than 1) are
// skipped without error. A residue above 1 after all candidates means the
// factorization is incomplete and certification cannot proceed.
func distinctFactors(p *big.Int, source FactorSource) ([]*big.Int, error) {
	cofactor := new(big.Int).Sub(p, one)
	n := new(big.Int).Set(cofactor)
	var factors []*big.Int
	seen := make(map[string]struct{})

	mod := new(big.Int)
	for _, c := range source.Candidates(cofactor) {
		if c == nil || c.Cmp(one) <= 0 {
			continue
		}
		if _, dup := seen[c.String()]; dup {
			continue
		}
		if mod.Mod(n, c).Sign() != 0 {
			continue
		}
		seen[c.String()] = struct{}{}
		factors = append(factors, new(big.Int).Set(c))
		for mod.Mod(n, c).Sign() == 0 {
			n.Div(n, c)
		}
	}

	if len(factors) == 0 {
		return nil, newError(KindFactorSource, "PRATT-FAC-001",
			"cannot find any prime factors for "+cofactor.String())
	}
	if n.Cmp(one) > 0 {
		return nil, newError(KindFactorSource, "PRATT-FAC-002",
			"cannot find all prime factors for "+cofactor.String())
	}
	return factors, nil
}

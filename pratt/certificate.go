// Package pratt implements generation and verification of Pratt primality
// certificates.
//
// A Pratt certificate is a recursive proof that an integer is prime: a
// primitive-root witness for the candidate together with certificates for the
// distinct prime factors of the candidate minus one. Certificates generated by
// this package cover the candidate and every prime appearing transitively in
// its proof chain, with 2 as the terminal base case.
//
// Verification is regeneration: a certificate is accepted exactly when
// rebuilding it from its own key set reproduces an identical structure. There
// is deliberately no independent checker; a second code path could diverge
// from the generator and silently accept invalid certificates.
package pratt

import "math/big"

// Entry is a single certificate record: a prime together with the distinct
// prime factors of that prime minus one, in discovery order.
//
// The entry for 2 has an empty factor list by definition.
type Entry struct {
	Prime   *big.Int
	Factors []*big.Int
}

// Certificate is an immutable mapping from prime to the distinct prime
// factors of that prime minus one. Entries are held in ascending key order;
// how a certificate was assembled does not affect its identity.
//
// Certificates form a finite DAG rooted at the largest key: every non-root
// key divides some other key minus one and is therefore strictly smaller.
type Certificate struct {
	entries []Entry
	index   map[string]int
}

// NewCertificate constructs a certificate from entries.
//
// Keys must be unique and greater than one, and every listed factor must be
// greater than one; violations are KindInvalidInput errors. No primality
// checking is performed here; use Verify to decide whether the certificate is
// actually valid.
func NewCertificate(entries []Entry) (*Certificate, error) {
	if len(entries) == 0 {
		return nil, newError(KindInvalidInput, "PRATT-IN-020", "certificate must have at least one entry")
	}
	c := &Certificate{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Prime == nil || e.Prime.Cmp(one) <= 0 {
			return nil, newError(KindInvalidInput, "PRATT-IN-021", "certificate keys must be integers greater than 1")
		}
		if _, exists := c.index[e.Prime.String()]; exists {
			return nil, newError(KindInvalidInput, "PRATT-IN-022", "duplicate certificate key "+e.Prime.String())
		}
		factors := make([]*big.Int, 0, len(e.Factors))
		for _, q := range e.Factors {
			if q == nil || q.Cmp(one) <= 0 {
				return nil, newError(KindInvalidInput, "PRATT-IN-023", "certificate factors must be integers greater than 1")
			}
			factors = append(factors, new(big.Int).Set(q))
		}
		c.index[e.Prime.String()] = len(c.entries)
		c.entries = append(c.entries, Entry{Prime: new(big.Int).Set(e.Prime), Factors: factors})
	}
	c.sort()
	return c, nil
}

func (c *Certificate) sort() {
	// Insertion sort; certificate chains are short (O(log candidate) keys).
	for i := 1; i < len(c.entries); i++ {
		e := c.entries[i]
		j := i - 1
		for j >= 0 && c.entries[j].Prime.Cmp(e.Prime) > 0 {
			c.entries[j+1] = c.entries[j]
			j--
		}
		c.entries[j+1] = e
	}
	for i, e := range c.entries {
		c.index[e.Prime.String()] = i
	}
}

// Len returns the number of certified primes.
func (c *Certificate) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Keys returns the certified primes in ascending order.
func (c *Certificate) Keys() []*big.Int {
	if c == nil {
		return nil
	}
	out := make([]*big.Int, len(c.entries))
	for i, e := range c.entries {
		out[i] = new(big.Int).Set(e.Prime)
	}
	return out
}

// Entries returns a copy of all certificate records in ascending key order.
func (c *Certificate) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry{Prime: new(big.Int).Set(e.Prime), Factors: copyInts(e.Factors)}
	}
	return out
}

// Factors returns the factor list recorded for p and whether p is a key.
func (c *Certificate) Factors(p *big.Int) ([]*big.Int, bool) {
	if c == nil || p == nil {
		return nil, false
	}
	i, ok := c.index[p.String()]
	if !ok {
		return nil, false
	}
	return copyInts(c.entries[i].Factors), true
}

// Root returns the prime the certificate proves: its largest key.
func (c *Certificate) Root() *big.Int {
	if c == nil || len(c.entries) == 0 {
		return nil
	}
	return new(big.Int).Set(c.entries[len(c.entries)-1].Prime)
}

// Equal reports whether two certificates have identical key sets and
// identical per-key factor lists, including factor order.
func (c *Certificate) Equal(other *Certificate) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := range c.entries {
		a, b := c.entries[i], other.entries[i]
		if a.Prime.Cmp(b.Prime) != 0 {
			return false
		}
		if len(a.Factors) != len(b.Factors) {
			return false
		}
		for j := range a.Factors {
			if a.Factors[j].Cmp(b.Factors[j]) != 0 {
				return false
			}
		}
	}
	return true
}

func copyInts(xs []*big.Int) []*big.Int {
	out := make([]*big.Int, len(xs))
	for i, x := range xs {
		out[i] = new(big.Int).Set(x)
	}
	return out
}

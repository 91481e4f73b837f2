package pratt

import "testing"

func TestFindWitness_Deterministic(t *testing.T) {
	cases := []struct {
		p       string
		factors []string
		witness string
	}{
		// 2 generates only a subgroup of order 3 mod 7; 3 is the first
		// primitive root the search encounters.
		{"7", []string{"2", "3"}, "3"},
		{"3", []string{"2"}, "2"},
		{"5", []string{"2"}, "2"},
		{"11", []string{"2", "5"}, "2"},
		{"13", []string{"2", "3"}, "2"},
	}
	for _, tc := range cases {
		g, err := findWitness(bi(tc.p), ints(tc.factors...))
		if err != nil {
			t.Fatalf("findWitness(%s): %v", tc.p, err)
		}
		if g.Cmp(bi(tc.witness)) != 0 {
			t.Fatalf("findWitness(%s) = %s, want %s", tc.p, g, tc.witness)
		}
	}
}

func TestFindWitness_Composite(t *testing.T) {
	// No base can satisfy the witness condition for a composite modulus.
	_, err := findWitness(bi("15"), ints("2", "7"))
	if !IsKind(err, KindNoWitness) {
		t.Fatalf("findWitness(15): got err=%v, want KindNoWitness", err)
	}
	if RuleID(err) != "PRATT-WIT-001" {
		t.Fatalf("findWitness(15): got rule %s, want PRATT-WIT-001", RuleID(err))
	}
}

func TestFindWitness_IncompleteFactors(t *testing.T) {
	// Omitting a prime factor of p-1 weakens the condition but the returned
	// base must still pass the checks that were performed.
	g, err := findWitness(bi("13"), ints("2"))
	if err != nil {
		t.Fatalf("findWitness(13, [2]): %v", err)
	}
	if g.Sign() <= 0 {
		t.Fatalf("unexpected witness %s", g)
	}
}

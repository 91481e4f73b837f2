package pratt

import (
	"testing"
)

func mustCertificate(t *testing.T, chain map[string][]string) *Certificate {
	t.Helper()
	entries := make([]Entry, 0, len(chain))
	for prime, factors := range chain {
		entries = append(entries, Entry{Prime: bi(prime), Factors: ints(factors...)})
	}
	cert, err := NewCertificate(entries)
	if err != nil {
		t.Fatalf("NewCertificate: %v", err)
	}
	return cert
}

func TestVerify_GeneratedCertificates(t *testing.T) {
	cases := []struct {
		candidate string
		pool      []string
	}{
		{"2", nil},
		{"3", []string{"2"}},
		{"41", []string{"2", "5"}},
		{"241", []string{"2", "3", "5"}},
		{"257", []string{"2"}},
	}
	for _, tc := range cases {
		cert := mustGenerate(t, tc.candidate, tc.pool...)
		ok, err := Verify(cert)
		if err != nil {
			t.Fatalf("Verify(generate(%s)): %v", tc.candidate, err)
		}
		if !ok {
			t.Fatalf("Verify(generate(%s)) = false", tc.candidate)
		}
	}
}

func TestVerify_HandcraftedValid(t *testing.T) {
	cert := mustCertificate(t, map[string][]string{
		"2": {}, "3": {"2"}, "5": {"2"}, "241": {"2", "3", "5"},
	})
	ok, err := Verify(cert)
	if err != nil || !ok {
		t.Fatalf("Verify = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestVerify_Mutations(t *testing.T) {
	cases := []struct {
		name  string
		chain map[string][]string
	}{
		{
			"factor removed from root entry",
			map[string][]string{"2": {}, "3": {"2"}, "5": {"2"}, "241": {"2", "3"}},
		},
		{
			"supporting key missing",
			map[string][]string{"2": {}, "3": {"2"}, "241": {"2", "3", "5"}},
		},
		{
			"unreachable extra key",
			map[string][]string{"2": {}, "3": {"2"}, "5": {"2"}, "7": {"2", "3"}, "241": {"2", "3", "5"}},
		},
		{
			"composite key",
			map[string][]string{"2": {}, "4": {"2"}},
		},
		{
			"base case with factors",
			map[string][]string{"2": {"2"}},
		},
		{
			"root factor list empty",
			map[string][]string{"2": {}, "3": {}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := Verify(mustCertificate(t, tc.chain))
			if err != nil {
				t.Fatalf("Verify returned hard error: %v", err)
			}
			if ok {
				t.Fatalf("Verify accepted an invalid certificate")
			}
		})
	}
}

func TestVerify_InvalidInput(t *testing.T) {
	if _, err := Verify(nil); !IsKind(err, KindInvalidInput) {
		t.Fatalf("Verify(nil): got err=%v, want KindInvalidInput", err)
	}
	if _, err := NewCertificate(nil); !IsKind(err, KindInvalidInput) {
		t.Fatalf("NewCertificate(nil): want KindInvalidInput")
	}
	if _, err := NewCertificate([]Entry{{Prime: bi("3"), Factors: ints("2")}, {Prime: bi("3"), Factors: ints("2")}}); !IsKind(err, KindInvalidInput) {
		t.Fatalf("duplicate keys: want KindInvalidInput")
	}
	if _, err := NewCertificate([]Entry{{Prime: bi("1")}}); !IsKind(err, KindInvalidInput) {
		t.Fatalf("key 1: want KindInvalidInput")
	}
}

func TestCertificate_Immutable(t *testing.T) {
	cert := mustGenerate(t, "241", "2", "3", "5")

	keys := cert.Keys()
	keys[0].SetInt64(99)
	factors, _ := cert.Factors(bi("241"))
	factors[0].SetInt64(99)
	entries := cert.Entries()
	entries[0].Prime.SetInt64(99)

	again := mustGenerate(t, "241", "2", "3", "5")
	if !cert.Equal(again) {
		t.Fatalf("mutating accessor results changed the certificate")
	}
}

package pctf

import (
	"math/big"
	"strings"
	"testing"

	"github.com/reity/pratts/pratt"
)

func bi(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad integer literal: %s", s)
	}
	return n
}

func mustCert241(t *testing.T) *pratt.Certificate {
	t.Helper()
	pool, err := pratt.NewPool([]*big.Int{big.NewInt(2), big.NewInt(3), big.NewInt(5)})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	cert, err := pratt.Generate(big.NewInt(241), pool)
	if err != nil {
		t.Fatalf("Generate(241): %v", err)
	}
	return cert
}

const doc241 = "-----BEGIN PRATT CERTIFICATE-----\n" +
	"META\n" +
	"Spec: pratt-pctf-1\n" +
	"Version: 1\n" +
	"\n" +
	"CHAIN\n" +
	"2:\n" +
	"3: 2\n" +
	"5: 2\n" +
	"241: 2 3 5\n" +
	"\n" +
	"CRYPTO\n" +
	"-----END PRATT CERTIFICATE-----"

func TestRender_Canonical(t *testing.T) {
	b, err := Render(NewDocument(mustCert241(t)))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(b) != doc241 {
		t.Fatalf("canonical bytes mismatch:\ngot:\n%s\nwant:\n%s", b, doc241)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	d, err := Parse([]byte(doc241))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(d.Raw()) != doc241 {
		t.Fatalf("Raw mismatch")
	}
	cert, err := d.Certificate()
	if err != nil {
		t.Fatalf("Certificate: %v", err)
	}
	if !cert.Equal(mustCert241(t)) {
		t.Fatalf("decoded certificate differs from generated one")
	}
	ok, err := d.VerifyChain()
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if !ok {
		t.Fatalf("VerifyChain = false for a valid chain")
	}
	if err := d.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestParse_SignedScope(t *testing.T) {
	d, err := Parse([]byte(doc241))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	signed := string(d.SignedBytes())
	if !strings.HasPrefix(signed, Preamble+"\n") {
		t.Fatalf("signed scope does not start at preamble")
	}
	if !strings.HasSuffix(signed, "241: 2 3 5\n\n") {
		t.Fatalf("signed scope does not end with the CHAIN section: %q", signed)
	}
	if strings.Contains(signed, "CRYPTO") {
		t.Fatalf("signed scope must not include the CRYPTO section")
	}
}

func TestVerifyChain_InvalidChain(t *testing.T) {
	// Canonical document whose chain omits 5 from the root factor list.
	doc := strings.Replace(doc241, "241: 2 3 5", "241: 2 3", 1)
	doc = strings.Replace(doc, "5: 2\n", "", 1)
	d, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ok, err := d.VerifyChain()
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if ok {
		t.Fatalf("VerifyChain accepted an invalid chain")
	}
	if err := d.Verify(); err == nil {
		t.Fatalf("Verify accepted an invalid chain")
	}
}

func TestNormalize_TolerantForms(t *testing.T) {
	cases := []string{
		doc241 + "\n",
		doc241 + "\n\n",
		"\xEF\xBB\xBF" + doc241,
		strings.ReplaceAll(doc241, "\n", "\r\n"),
	}
	for i, in := range cases {
		out, err := Normalize([]byte(in))
		if err != nil {
			t.Fatalf("Normalize case %d: %v", i, err)
		}
		if string(out) != doc241 {
			t.Fatalf("Normalize case %d: non-canonical output", i)
		}
	}
	if _, err := Normalize([]byte(strings.ReplaceAll(doc241, "\n", "\r"))); err == nil {
		t.Fatalf("Normalize accepted bare CR line endings")
	}
}

func TestCID_Deterministic(t *testing.T) {
	b, id, err := RenderWithCID(mustCert241(t))
	if err != nil {
		t.Fatalf("RenderWithCID: %v", err)
	}
	id2, err := CID(b)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if id != id2 || id == "" {
		t.Fatalf("CID not stable: %q vs %q", id, id2)
	}
	if _, err := CID([]byte(doc241 + "\n")); err == nil {
		t.Fatalf("CID accepted non-canonical bytes")
	}
}

// Certificates assembled from shuffled pools must render byte-identically;
// content identity cannot depend on how the inputs arrived.
func TestDeterminism_ShuffledPools(t *testing.T) {
	pools := [][]int64{
		{2, 3, 5},
		{5, 3, 2},
		{3, 2, 5, 5, 3},
	}
	var want string
	for i, raw := range pools {
		var xs []*big.Int
		for _, v := range raw {
			xs = append(xs, big.NewInt(v))
		}
		pool, err := pratt.NewPool(xs)
		if err != nil {
			t.Fatalf("NewPool: %v", err)
		}
		cert, err := pratt.Generate(big.NewInt(241), pool)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		b, err := Render(NewDocument(cert))
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if i == 0 {
			want = string(b)
			continue
		}
		if string(b) != want {
			t.Fatalf("pool %v rendered different bytes", raw)
		}
	}
}

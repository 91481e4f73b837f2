// Package pctf implements parsing and canonicalization for the Pratt
// Certificate Text Format (PCTF).
//
// PCTF v1 is a strict canonical text encoding of a Pratt certificate, so
// certificates can be hashed, signed, content-addressed, and exchanged.
// There is exactly one byte representation for a given certificate; Parse
// rejects every non-canonical input.
package pctf

import (
	"bytes"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/reity/pratts/cidutil"
	"github.com/reity/pratts/pratt"
)

const (
	Preamble  = "-----BEGIN PRATT CERTIFICATE-----"
	Postamble = "-----END PRATT CERTIFICATE-----"

	SpecID      = "pratt-pctf-1"
	SpecVersion = "1"

	metaSpecKey    = "Spec"
	metaVersionKey = "Version"
)

// SectionOrder defines the canonical order of PCTF sections.
var SectionOrder = []string{"META", "CHAIN", "CRYPTO"}

// PCTF is a parsed, canonical PCTF document.
type PCTF struct {
	Meta   map[string]string
	Chain  []pratt.Entry
	Crypto map[string]string

	raw    []byte // canonical bytes
	signed []byte // bytes covered by the signature (BEGIN through end of CHAIN)
}

// Raw returns the canonical document bytes.
func (d *PCTF) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// SignedBytes returns the signature scope: the preamble through the end of
// the CHAIN section, inclusive.
func (d *PCTF) SignedBytes() []byte {
	return append([]byte(nil), d.signed...)
}

// CID returns a deterministic content identifier for the canonical bytes:
// an IPFS-compatible CIDv1 (raw + sha2-256).
func (d *PCTF) CID() string {
	return cidutil.CIDv1RawSHA256(d.raw)
}

// Certificate reconstructs the pratt.Certificate encoded in the CHAIN section.
func (d *PCTF) Certificate() (*pratt.Certificate, error) {
	cert, err := pratt.NewCertificate(d.Chain)
	if err != nil {
		return nil, wrapError(KindValidation, "PCTF-VAL-301", "CHAIN does not encode a certificate", err)
	}
	return cert, nil
}

// VerifyChain reports whether the encoded chain is a valid Pratt certificate,
// by regeneration from its own key set.
func (d *PCTF) VerifyChain() (bool, error) {
	cert, err := d.Certificate()
	if err != nil {
		return false, err
	}
	return pratt.Verify(cert)
}

// Verify checks the document end to end: chain validity by regeneration, and
// the signature when the document is signed. Verification always operates on
// the canonical bytes; a mutated in-memory document cannot bypass it.
func (d *PCTF) Verify() error {
	if d == nil {
		return newError(KindValidation, "PCTF-VAL-300", "nil document")
	}
	parsed, err := Parse(d.raw)
	if err != nil {
		return err
	}
	ok, err := parsed.VerifyChain()
	if err != nil {
		return err
	}
	if !ok {
		return newError(KindValidation, "PCTF-VAL-302", "certificate chain did not verify")
	}
	if _, err := parsed.VerifySignature(); err != nil {
		return err
	}
	return nil
}

// Parse parses a PCTF document and enforces the v1 canonical serialization
// rules. Non-canonical inputs are rejected.
func Parse(data []byte) (*PCTF, error) {
	if !utf8.Valid(data) {
		return nil, newError(KindParse, "PCTF-STR-001", "PCTF must be valid UTF-8")
	}
	if bytes.Contains(data, []byte("\r")) {
		return nil, newError(KindCanonical, "PCTF-CANON-001", "CR line endings not allowed")
	}
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, newError(KindCanonical, "PCTF-CANON-002", "BOM not allowed")
	}
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return nil, newError(KindCanonical, "PCTF-CANON-003", "trailing newline not allowed")
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
			return nil, newError(KindCanonical, "PCTF-CANON-004", "trailing whitespace forbidden")
		}
	}
	if len(lines) < 2 || lines[0] != Preamble {
		return nil, newError(KindParse, "PCTF-STR-002", "missing PCTF preamble")
	}
	if lines[len(lines)-1] != Postamble {
		return nil, newError(KindParse, "PCTF-STR-003", "missing PCTF postamble")
	}

	body := lines[1 : len(lines)-1]
	i := 0
	nextSection := func(name string, first bool) error {
		if !first {
			if i >= len(body) || body[i] != "" {
				return newError(KindCanonical, "PCTF-CANON-005", "missing blank line between sections")
			}
			i++
		}
		if i >= len(body) || body[i] != name {
			return newError(KindParse, "PCTF-STR-004", "sections missing or out of order")
		}
		i++
		return nil
	}
	sectionLines := func() []string {
		start := i
		for i < len(body) && body[i] != "" && !isSectionHeader(body[i]) {
			i++
		}
		return body[start:i]
	}

	if err := nextSection("META", true); err != nil {
		return nil, err
	}
	meta, err := parsePairs(sectionLines())
	if err != nil {
		return nil, err
	}

	if err := nextSection("CHAIN", false); err != nil {
		return nil, err
	}
	chain, err := parseChain(sectionLines())
	if err != nil {
		return nil, err
	}

	if err := nextSection("CRYPTO", false); err != nil {
		return nil, err
	}
	crypto, err := parsePairs(sectionLines())
	if err != nil {
		return nil, err
	}
	if i != len(body) {
		return nil, newError(KindParse, "PCTF-STR-005", "unexpected content before postamble")
	}

	// Enforce full canonical byte identity by re-rendering and comparing.
	// This makes Parse strictly reject any non-canonical input: unsorted
	// keys, missing META fields, incomplete CRYPTO, spacing deviations.
	doc := Document{Meta: meta, Chain: chain, Crypto: crypto}
	canonical, rerr := Render(doc)
	if rerr != nil {
		return nil, rerr
	}
	if !bytes.Equal(data, canonical) {
		return nil, newError(KindCanonical, "PCTF-CANON-006", "non-canonical PCTF")
	}

	// Signature scope: BEGIN line through the end of the CHAIN section.
	marker := []byte("\nCRYPTO\n")
	idx := bytes.Index(canonical, marker)
	if idx < 0 {
		return nil, newError(KindInternal, "PCTF-INTERNAL-001", "cannot determine signature scope")
	}
	return &PCTF{
		Meta:   meta,
		Chain:  chain,
		Crypto: crypto,
		raw:    canonical,
		signed: canonical[:idx+1],
	}, nil
}

// CanonicalizePCTF is the single mandatory canonicalization choke point.
// All PCTF hashing, signing, and CID derivation must pass through it.
func CanonicalizePCTF(input []byte) ([]byte, error) {
	d, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return d.Raw(), nil
}

func parsePairs(lines []string) (map[string]string, error) {
	pairs := make(map[string]string, len(lines))
	for _, line := range lines {
		key, val, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, newError(KindParse, "PCTF-KV-010", "invalid key-value formatting")
		}
		if key == "" {
			return nil, newError(KindParse, "PCTF-KV-001", "empty key")
		}
		if !isASCII(key) {
			return nil, newError(KindParse, "PCTF-KV-002", "non-ASCII key")
		}
		if strings.HasPrefix(val, " ") {
			return nil, newError(KindCanonical, "PCTF-KV-004", "value must not start with a space")
		}
		if _, dup := pairs[key]; dup {
			return nil, newError(KindParse, "PCTF-KV-011", "duplicate key in section")
		}
		pairs[key] = val
	}
	return pairs, nil
}

func parseChain(lines []string) ([]pratt.Entry, error) {
	entries := make([]pratt.Entry, 0, len(lines))
	for _, line := range lines {
		head, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, newError(KindParse, "PCTF-CHAIN-010", "invalid chain line")
		}
		prime, err := parseCanonicalInt(head)
		if err != nil {
			return nil, err
		}
		var factors []*big.Int
		if rest != "" {
			if rest[0] != ' ' {
				return nil, newError(KindCanonical, "PCTF-CHAIN-011", "chain factors must be space-separated")
			}
			for _, field := range strings.Split(rest[1:], " ") {
				q, err := parseCanonicalInt(field)
				if err != nil {
					return nil, err
				}
				factors = append(factors, q)
			}
		}
		entries = append(entries, pratt.Entry{Prime: prime, Factors: factors})
	}
	return entries, nil
}

func parseCanonicalInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, newError(KindParse, "PCTF-CHAIN-012", "empty integer")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, newError(KindParse, "PCTF-CHAIN-013", "integers must be base-10 digits")
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return nil, newError(KindCanonical, "PCTF-CHAIN-014", "leading zeros not allowed")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, newError(KindInternal, "PCTF-INTERNAL-002", "integer parse failed")
	}
	return n, nil
}

func isSectionHeader(line string) bool {
	for _, s := range SectionOrder {
		if line == s {
			return true
		}
	}
	return false
}

package pctf

import (
	"sort"
	"strings"

	"github.com/reity/pratts/pratt"
)

// Document is the in-memory representation for producing canonical PCTF.
// Rendered bytes are always canonical (section order, META key order, chain
// key order, spacing, and blank lines).
type Document struct {
	// Meta must include Spec and Version with their fixed v1 values; extra
	// pairs are permitted and rendered in sorted key order.
	Meta map[string]string

	// Chain holds the certificate entries. Render requires strictly ascending
	// unique keys, which Certificate.Entries() provides.
	Chain []pratt.Entry

	// Crypto is either empty (unsigned document) or the complete field set
	// Hash-Alg, Signature, Signature-Alg, Signer-Key.
	Crypto map[string]string
}

// NewDocument wraps a certificate in an unsigned v1 document.
func NewDocument(cert *pratt.Certificate) Document {
	return Document{
		Meta:  map[string]string{"Spec": SpecID, "Version": SpecVersion},
		Chain: cert.Entries(),
	}
}

var cryptoFields = []string{"Hash-Alg", "Signature", "Signature-Alg", "Signer-Key"}

// Render produces canonical PCTF bytes from a Document.
func Render(doc Document) ([]byte, error) {
	if doc.Meta[metaSpecKey] != SpecID {
		return nil, newError(KindRender, "PCTF-META-001", "META must declare Spec: "+SpecID)
	}
	if doc.Meta[metaVersionKey] != SpecVersion {
		return nil, newError(KindRender, "PCTF-META-002", "META must declare Version: "+SpecVersion)
	}
	if len(doc.Chain) == 0 {
		return nil, newError(KindRender, "PCTF-CHAIN-001", "CHAIN must have at least one entry")
	}
	if len(doc.Crypto) != 0 {
		if len(doc.Crypto) != len(cryptoFields) {
			return nil, newError(KindRender, "PCTF-CRYPTO-001", "CRYPTO must be empty or complete")
		}
		for _, k := range cryptoFields {
			if doc.Crypto[k] == "" {
				return nil, newError(KindRender, "PCTF-CRYPTO-001", "CRYPTO missing field: "+k)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")

	sb.WriteString("META\n")
	if err := writePairs(&sb, doc.Meta); err != nil {
		return nil, err
	}
	sb.WriteString("\n")

	sb.WriteString("CHAIN\n")
	for i, e := range doc.Chain {
		if e.Prime == nil || e.Prime.Sign() <= 0 {
			return nil, newError(KindRender, "PCTF-CHAIN-002", "chain keys must be positive integers")
		}
		if i > 0 && doc.Chain[i-1].Prime.Cmp(e.Prime) >= 0 {
			return nil, newError(KindRender, "PCTF-CHAIN-003", "chain keys must be strictly ascending")
		}
		sb.WriteString(e.Prime.String())
		sb.WriteString(":")
		for _, q := range e.Factors {
			if q == nil || q.Sign() <= 0 {
				return nil, newError(KindRender, "PCTF-CHAIN-004", "chain factors must be positive integers")
			}
			sb.WriteString(" ")
			sb.WriteString(q.String())
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("CRYPTO\n")
	if err := writePairs(&sb, doc.Crypto); err != nil {
		return nil, err
	}

	sb.WriteString(Postamble)
	return []byte(sb.String()), nil
}

func writePairs(sb *strings.Builder, pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		if k == "" {
			return newError(KindRender, "PCTF-KV-001", "empty key")
		}
		if !isASCII(k) {
			return newError(KindRender, "PCTF-KV-002", "non-ASCII key")
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := pairs[k]
		if v == "" {
			return newError(KindRender, "PCTF-KV-003", "empty value")
		}
		if strings.HasPrefix(v, " ") {
			return newError(KindRender, "PCTF-KV-004", "value must not start with a space")
		}
		if strings.ContainsAny(v, "\n\r") {
			return newError(KindRender, "PCTF-KV-005", "value must not contain newlines")
		}
		if strings.HasSuffix(v, " ") || strings.HasSuffix(v, "\t") {
			return newError(KindRender, "PCTF-KV-006", "trailing whitespace forbidden")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

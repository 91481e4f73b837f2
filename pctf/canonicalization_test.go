package pctf

import (
	"strings"
	"testing"
)

// Parse must reject every byte-level deviation from the canonical form;
// accepting any of them would let one certificate exist under two CIDs.
func TestParse_RejectsNonCanonical(t *testing.T) {
	mutate := func(f func(string) string) []byte { return []byte(f(doc241)) }

	cases := []struct {
		name  string
		input []byte
	}{
		{"trailing newline", mutate(func(s string) string { return s + "\n" })},
		{"crlf line endings", mutate(func(s string) string { return strings.ReplaceAll(s, "\n", "\r\n") })},
		{"utf-8 bom", mutate(func(s string) string { return "\xEF\xBB\xBF" + s })},
		{"trailing space on line", mutate(func(s string) string { return strings.Replace(s, "3: 2\n", "3: 2 \n", 1) })},
		{"missing preamble", mutate(func(s string) string { return strings.TrimPrefix(s, Preamble+"\n") })},
		{"missing postamble", mutate(func(s string) string { return strings.TrimSuffix(s, "\n"+Postamble) })},
		{"meta keys unsorted", mutate(func(s string) string {
			return strings.Replace(s, "Spec: pratt-pctf-1\nVersion: 1", "Version: 1\nSpec: pratt-pctf-1", 1)
		})},
		{"missing spec field", mutate(func(s string) string { return strings.Replace(s, "Spec: pratt-pctf-1\n", "", 1) })},
		{"wrong version value", mutate(func(s string) string { return strings.Replace(s, "Version: 1", "Version: 2", 1) })},
		{"chain keys descending", mutate(func(s string) string {
			return strings.Replace(s, "3: 2\n5: 2", "5: 2\n3: 2", 1)
		})},
		{"duplicate chain key", mutate(func(s string) string { return strings.Replace(s, "5: 2\n", "5: 2\n5: 2\n", 1) })},
		{"leading zero integer", mutate(func(s string) string { return strings.Replace(s, "241: 2 3 5", "0241: 2 3 5", 1) })},
		{"double space between factors", mutate(func(s string) string { return strings.Replace(s, "241: 2 3 5", "241: 2  3 5", 1) })},
		{"missing blank line between sections", mutate(func(s string) string { return strings.Replace(s, "1\n\nCHAIN", "1\nCHAIN", 1) })},
		{"extra blank line between sections", mutate(func(s string) string { return strings.Replace(s, "1\n\nCHAIN", "1\n\n\nCHAIN", 1) })},
		{"sections out of order", mutate(func(s string) string {
			return strings.Replace(s, "META\nSpec: pratt-pctf-1\nVersion: 1\n\nCHAIN", "CHAIN\n2:\n3: 2\n5: 2\n241: 2 3 5\n\nMETA", 1)
		})},
		{"incomplete crypto section", mutate(func(s string) string { return strings.Replace(s, "CRYPTO\n", "CRYPTO\nHash-Alg: sha256\n", 1) })},
		{"content after crypto", mutate(func(s string) string {
			return strings.Replace(s, "CRYPTO\n"+Postamble, "CRYPTO\n\n"+Postamble, 1)
		})},
		{"sign on integer", mutate(func(s string) string { return strings.Replace(s, "241: 2 3 5", "241: +2 3 5", 1) })},
		{"hex integer", mutate(func(s string) string { return strings.Replace(s, "241: 2 3 5", "0xf1: 2 3 5", 1) })},
		{"empty document", []byte("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.input); err == nil {
				t.Fatalf("Parse accepted non-canonical input")
			}
		})
	}
}

func TestParse_SortedExtraMetaAllowed(t *testing.T) {
	// Extra META pairs are permitted as long as the document stays canonical.
	in := strings.Replace(doc241, "META\nSpec:", "META\nIssued-For: example\nSpec:", 1)
	d, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Meta["Issued-For"] != "example" {
		t.Fatalf("extra META pair lost")
	}
}

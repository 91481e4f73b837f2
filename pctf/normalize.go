package pctf

import "bytes"

// Normalize canonicalizes a PCTF document by parsing into the document model
// and re-rendering under the canonical rules.
//
// Unlike Parse, Normalize tolerates some non-canonical byte-level forms
// (currently: an optional UTF-8 BOM, CRLF line endings, and trailing
// newlines) and produces canonical output bytes. It exists for ingestion
// boundaries like files and pipes; everything past those boundaries operates
// on canonical bytes only.
func Normalize(input []byte) ([]byte, error) {
	b := input

	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		b = b[3:]
	}

	if bytes.Contains(b, []byte("\r")) {
		b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
		if bytes.Contains(b, []byte("\r")) {
			return nil, newError(KindCanonical, "PCTF-CANON-001", "CR line endings not allowed")
		}
	}

	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}

	return CanonicalizePCTF(b)
}

package pctf

import (
	"github.com/reity/pratts/cidutil"
	"github.com/reity/pratts/pratt"
)

// CID returns an IPFS-compatible CIDv1 (raw + sha2-256) for PCTF bytes.
//
// The input must be canonical; non-canonical bytes are rejected rather than
// silently hashed, since two encodings of the same certificate must never
// yield two identifiers.
func CID(pctfBytes []byte) (string, error) {
	canon, err := CanonicalizePCTF(pctfBytes)
	if err != nil {
		return "", wrapError(KindCID, "PCTF-CID-001", "canonical PCTF required", err)
	}
	return cidutil.CIDv1RawSHA256(canon), nil
}

// RenderWithCID renders a certificate as unsigned canonical PCTF and returns
// the bytes together with their CID.
func RenderWithCID(cert *pratt.Certificate) ([]byte, string, error) {
	b, err := Render(NewDocument(cert))
	if err != nil {
		return nil, "", err
	}
	id, err := CID(b)
	if err != nil {
		return nil, "", err
	}
	return b, id, nil
}

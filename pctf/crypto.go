package pctf

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"github.com/reity/pratts/pratt"
)

// SignOptions selects the signing key and digest for RenderSigned.
// Exactly one of Ed25519Key and Dilithium3Key must be set.
type SignOptions struct {
	// HashAlg is one of sha256, sha512, sha3-256. Empty means sha256.
	HashAlg string

	Ed25519Key    ed25519.PrivateKey
	Dilithium3Key *mode3.PrivateKey
}

// RenderSigned renders a certificate as canonical PCTF with a populated
// CRYPTO section. The signature covers the preamble through the end of the
// CHAIN section of the final canonical bytes.
func RenderSigned(cert *pratt.Certificate, opts SignOptions) ([]byte, error) {
	hashAlg := opts.HashAlg
	if hashAlg == "" {
		hashAlg = "sha256"
	}

	var sigAlg, signerKey string
	switch {
	case opts.Ed25519Key != nil && opts.Dilithium3Key != nil:
		return nil, newError(KindCrypto, "PCTF-CRYPTO-002", "multiple signing keys supplied")
	case opts.Ed25519Key != nil:
		sigAlg = "ed25519"
		pub := opts.Ed25519Key.Public().(ed25519.PublicKey)
		signerKey = "ed25519:" + base64.StdEncoding.EncodeToString(pub)
	case opts.Dilithium3Key != nil:
		sigAlg = "dilithium3"
		pub, err := opts.Dilithium3Key.Public().(*mode3.PublicKey).MarshalBinary()
		if err != nil {
			return nil, wrapError(KindCrypto, "PCTF-CRYPTO-003", "cannot encode dilithium3 public key", err)
		}
		signerKey = "dilithium3:" + base64.StdEncoding.EncodeToString(pub)
	default:
		return nil, newError(KindCrypto, "PCTF-CRYPTO-004", "missing signing key")
	}

	doc := NewDocument(cert)
	doc.Crypto = map[string]string{
		"Hash-Alg":      hashAlg,
		"Signature":     "0",
		"Signature-Alg": sigAlg,
		"Signer-Key":    signerKey,
	}
	pre, err := Render(doc)
	if err != nil {
		return nil, err
	}
	parsed, err := Parse(pre)
	if err != nil {
		return nil, err
	}
	digest, err := digestFor(hashAlg, parsed.SignedBytes())
	if err != nil {
		return nil, err
	}

	var sig []byte
	switch sigAlg {
	case "ed25519":
		sig = ed25519.Sign(opts.Ed25519Key, digest)
	case "dilithium3":
		sig = make([]byte, mode3.SignatureSize)
		mode3.SignTo(opts.Dilithium3Key, digest, sig)
	}
	doc.Crypto["Signature"] = base64.StdEncoding.EncodeToString(sig)
	return Render(doc)
}

// VerifySignature verifies the CRYPTO signature, if present.
//
// Returns (true, nil) when the document is signed and the signature verifies.
// Returns (false, nil) when the document is unsigned (empty CRYPTO section).
// Returns (false, err) for unsupported algorithms or invalid signatures.
func (d *PCTF) VerifySignature() (bool, error) {
	if d == nil {
		return false, newError(KindCrypto, "PCTF-CRYPTO-005", "nil document")
	}
	// Re-parse the receiver bytes so canonicalization cannot be bypassed via
	// a manually constructed or mutated document.
	parsed, err := Parse(d.raw)
	if err != nil {
		return false, err
	}
	if len(parsed.Crypto) == 0 {
		return false, nil
	}

	sigAlg := parsed.Crypto["Signature-Alg"]
	hashAlg := parsed.Crypto["Hash-Alg"]
	signerKey := parsed.Crypto["Signer-Key"]

	keyAlg, keyB64, ok := strings.Cut(signerKey, ":")
	if !ok {
		return false, newError(KindCrypto, "PCTF-CRYPTO-111", "invalid Signer-Key encoding")
	}
	if keyAlg != sigAlg {
		return false, newError(KindCrypto, "PCTF-CRYPTO-121", "Signer-Key alg does not match Signature-Alg")
	}
	pub, err := decodeBase64(keyB64)
	if err != nil {
		return false, wrapError(KindCrypto, "PCTF-CRYPTO-113", "invalid signer key base64", err)
	}
	sig, err := decodeBase64(parsed.Crypto["Signature"])
	if err != nil {
		return false, wrapError(KindCrypto, "PCTF-CRYPTO-131", "invalid signature base64", err)
	}
	digest, err := digestFor(hashAlg, parsed.signed)
	if err != nil {
		return false, err
	}

	switch sigAlg {
	case "ed25519":
		if len(pub) != ed25519.PublicKeySize {
			return false, newError(KindCrypto, "PCTF-CRYPTO-114", "invalid ed25519 public key length")
		}
		if len(sig) != ed25519.SignatureSize {
			return false, newError(KindCrypto, "PCTF-CRYPTO-132", "invalid ed25519 signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return false, newError(KindCrypto, "PCTF-CRYPTO-401", "signature invalid")
		}
		return true, nil
	case "dilithium3":
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return false, wrapError(KindCrypto, "PCTF-CRYPTO-115", "invalid dilithium3 public key", err)
		}
		if len(sig) != mode3.SignatureSize {
			return false, newError(KindCrypto, "PCTF-CRYPTO-133", "invalid dilithium3 signature length")
		}
		if !mode3.Verify(&pk, digest, sig) {
			return false, newError(KindCrypto, "PCTF-CRYPTO-401", "signature invalid")
		}
		return true, nil
	default:
		return false, newError(KindCrypto, "PCTF-CRYPTO-301", "unsupported Signature-Alg")
	}
}

func digestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, newError(KindCrypto, "PCTF-CRYPTO-201", "unsupported Hash-Alg")
	}
}

func decodeBase64(s string) ([]byte, error) {
	// Prefer standard padded encoding, but accept raw encoding too.
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

package pratt

import "errors"

// Verify reports whether cert is a valid Pratt certificate.
//
// Verification is regeneration: the certificate's own key set is handed back
// in as a candidate pool, the certificate for the root key is rebuilt, and
// the rebuilt structure must equal the input exactly. A missing key, an extra
// key, a differing factor list, or any witness failure during regeneration
// all yield false.
//
// Regeneration failures are downgraded to a false result. Malformed inputs
// (nil or empty certificate) are caller misuse and remain hard
// KindInvalidInput errors.
func Verify(cert *Certificate) (bool, error) {
	if cert.Len() == 0 {
		return false, newError(KindInvalidInput, "PRATT-IN-020", "certificate must have at least one entry")
	}

	pool, err := NewPool(cert.Keys())
	if err != nil {
		return false, err
	}
	regen, err := Generate(cert.Root(), pool)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Kind == KindInvalidInput {
			return false, err
		}
		return false, nil
	}
	return regen.Equal(cert), nil
}

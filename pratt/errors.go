package pratt

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindInvalidInput covers caller misuse: a candidate that is not greater
	// than one, a nil factor source, or an empty certificate handed to Verify.
	KindInvalidInput Kind = "InvalidInput"

	// KindFactorSource covers factor acquisition failures: the source yielded
	// no usable candidate divisors for some p-1, or the candidates it yielded
	// do not account for all of p-1.
	KindFactorSource Kind = "FactorSource"

	// KindNoWitness indicates that no primitive-root witness exists for a
	// prime under certification. This signals either a composite candidate or
	// an incorrect factor source.
	KindNoWitness Kind = "NoWitness"

	KindInternal Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., PRATT-IN-001, PRATT-FAC-002) that names
// the violated invariant.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

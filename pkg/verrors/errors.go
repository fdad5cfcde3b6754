// Package verrors defines the single tagged error taxonomy shared across
// fi-verifiable-data's proof, credential and presentation packages.
package verrors

import "fmt"

// Kind identifies one of the error categories from the error-handling
// design. Every public operation that can fail returns either a value or
// an *Error carrying one of these kinds.
type Kind string

const (
	NoPrivateKey        Kind = "NoPrivateKey"
	NoPublicKey         Kind = "NoPublicKey"
	UnknownAlgorithm    Kind = "UnknownAlgorithm"
	SignerInitError     Kind = "SignerInitError"
	VerifierInitError   Kind = "VerifierInitError"
	SignFailed          Kind = "SignFailed"
	VerifyFailed        Kind = "VerifyFailed"
	NoSignature         Kind = "NoSignature"
	NoProof             Kind = "NoProof"
	Canonicalization    Kind = "Canonicalization"
	FieldCasting        Kind = "FieldCasting"
	DeserializationError Kind = "DeserializationError"
)

// Error is the concrete error type returned by this module. Op names the
// operation that failed (e.g. "FiProof.Sign", "VC.UnmarshalJSON"); Kind classifies
// the failure; Err, when present, wraps the underlying cause.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, verrors.New("", verrors.NoSignature, nil)) or more
// conveniently verrors.Is(err, verrors.NoSignature) via the Is function below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error for the given operation, kind and cause. cause
// may be nil.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error,
// returning ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	for err != nil {
		if ve, ok := err.(*Error); ok {
			e = ve
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err is a *Error of the given kind. Convenience for
// errors.Is(err, verrors.New("", kind, nil)).
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

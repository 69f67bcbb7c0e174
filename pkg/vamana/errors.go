package vamana

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error categories every failing operation in
// this package surfaces exactly one of.
type Kind string

const (
	KindDimensionMismatch Kind = "dimension-mismatch"
	KindEmptyCorpus       Kind = "empty-corpus"
	KindFormatInvalid     Kind = "format-invalid"
	KindFormatTruncated   Kind = "format-truncated"
	KindFormatTrailing    Kind = "format-trailing-bytes"
	KindChecksumMismatch  Kind = "checksum-mismatch"
	KindIOError           Kind = "io-error"
	KindOutOfMemory       Kind = "out-of-memory"
	KindInvalidParameter  Kind = "invalid-parameter"
)

// Error wraps an underlying cause with a closed Kind so callers can
// branch on the failure category with errors.As instead of string
// matching.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or "" if err does not wrap a
// *vamana.Error.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

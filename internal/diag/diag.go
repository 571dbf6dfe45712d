// Package diag provides the typed, fatal errors reported by the scanner and
// the parser. Every error carries a kind, a stable code and the byte offset
// of the failure; there is no recovery and no partial result.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a parse failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors that did not come from the parser.
	Unknown Kind = iota
	// ScanError is an unrecognized byte or an unterminated string or comment.
	ScanError
	// SyntaxError is an expected token or character that is absent.
	SyntaxError
	// InternalInvariantError means an expression did not collapse to a
	// single node: a malformed expression or precedence table.
	InternalInvariantError
	// BuilderError wraps a failure returned by the Builder.
	BuilderError
)

var kindNames = map[Kind]string{
	Unknown:                "unknown",
	ScanError:              "scan error",
	SyntaxError:            "syntax error",
	InternalInvariantError: "internal error",
	BuilderError:           "builder error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a fatal parse failure.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`   // stable error code, e.g. "E2001"
	Offset  int    `json:"offset"` // byte offset into the source
	Message string `json:"message"`

	cause error
}

// Error returns a human-readable representation of the failure.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s at offset %d: %s", e.Code, e.Kind, e.Offset, e.Message)
}

// Cause returns the wrapped builder error, if any.
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap supports errors.Is/As from the standard library.
func (e *Error) Unwrap() error {
	return e.cause
}

func newf(kind Kind, code string, offset int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
}

// Scanf creates a ScanError at offset.
func Scanf(code string, offset int, format string, args ...interface{}) *Error {
	return newf(ScanError, code, offset, format, args...)
}

// Syntaxf creates a SyntaxError at offset.
func Syntaxf(code string, offset int, format string, args ...interface{}) *Error {
	return newf(SyntaxError, code, offset, format, args...)
}

// Internalf creates an InternalInvariantError at offset.
func Internalf(code string, offset int, format string, args ...interface{}) *Error {
	return newf(InternalInvariantError, code, offset, format, args...)
}

// Builder wraps err, returned by the named builder operation, as a
// BuilderError at offset. It returns nil if err is nil.
func Builder(err error, offset int, op string) error {
	if err == nil {
		return nil
	}
	e := newf(BuilderError, "E4001", offset, "%s: %v", op, err)
	e.cause = errors.WithMessage(err, op)
	return e
}

// KindOf returns the kind of a parse failure, or Unknown if err was not
// produced by this package. Errors wrapped with github.com/pkg/errors are
// unwrapped through their Cause until a parse failure is found.
func KindOf(err error) Kind {
	if e := find(err); e != nil {
		return e.Kind
	}
	return Unknown
}

// OffsetOf returns the byte offset recorded in a parse failure.
func OffsetOf(err error) (int, bool) {
	if e := find(err); e != nil {
		return e.Offset, true
	}
	return 0, false
}

// find stops at the outermost *Error; errors.Cause would walk past it into
// a wrapped builder error.
func find(err error) *Error {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// Package xerrors defines the distinguishable error taxonomy used
// throughout expertsystem: usage errors, I/O errors, syntax errors,
// internal invariant violations, and a contradictory rule base. Each
// carries both a technical Error() string and a UserMessage suitable
// for printing to stderr without implementation detail.
package xerrors

import (
	"errors"
	"fmt"
)

// kind distinguishes the five error categories without exposing a
// type switch to callers; use the Is* helpers instead.
type kind int

const (
	kindUsage kind = iota
	kindIO
	kindSyntax
	kindInvariant
	kindContradiction
)

// xError is the common shape behind every taxonomy member: a
// technical message for Error(), a human message for UserMessage, and
// an optional wrapped cause.
type xError struct {
	kind  kind
	msg   string
	human string
	wrap  error
}

func (e *xError) Error() string {
	return e.msg
}

// UserMessage returns the message to print to an operator describing
// the error, distinct from the more technical Error() string.
func (e *xError) UserMessage() string {
	return e.human
}

func (e *xError) Unwrap() error {
	return e.wrap
}

func newError(k kind, human string) error {
	return &xError{kind: k, msg: human, human: human}
}

func wrapError(k kind, e error, human string) error {
	return &xError{kind: k, msg: fmt.Sprintf("%s: %s", human, e), human: human, wrap: e}
}

// Usage returns an error for a bad CLI invocation (missing argument,
// unknown flag).
func Usage(format string, a ...interface{}) error {
	return newError(kindUsage, fmt.Sprintf(format, a...))
}

// IO returns an error for a failure reading or opening a file, wrapping
// the underlying cause.
func IO(cause error, format string, a ...interface{}) error {
	return wrapError(kindIO, cause, fmt.Sprintf(format, a...))
}

// Syntax returns an error for malformed input-file content: a
// lowercase letter, an unrecognized symbol, or a malformed token.
func Syntax(format string, a ...interface{}) error {
	return newError(kindSyntax, fmt.Sprintf(format, a...))
}

// Invariant returns an error for a condition the implementation
// guarantees can never happen (an operator with no operand, a
// reduction that doesn't converge). Seeing one means a bug, not bad
// input.
func Invariant(format string, a ...interface{}) error {
	return newError(kindInvariant, fmt.Sprintf(format, a...))
}

// Contradiction returns an error for a rule base with no valid state
// in its conjoined truth table.
func Contradiction(format string, a ...interface{}) error {
	return newError(kindContradiction, fmt.Sprintf(format, a...))
}

func isKind(err error, k kind) bool {
	var xe *xError
	if errors.As(err, &xe) {
		return xe.kind == k
	}
	return false
}

func IsUsage(err error) bool         { return isKind(err, kindUsage) }
func IsIO(err error) bool            { return isKind(err, kindIO) }
func IsSyntax(err error) bool        { return isKind(err, kindSyntax) }
func IsInvariant(err error) bool     { return isKind(err, kindInvariant) }
func IsContradiction(err error) bool { return isKind(err, kindContradiction) }

// UserMessage returns the message to display for err: the taxonomy's
// UserMessage if err is one of ours, or err.Error() otherwise.
func UserMessage(err error) string {
	var xe *xError
	if errors.As(err, &xe) {
		return xe.UserMessage()
	}
	return err.Error()
}

package gf2

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of GF(2) arithmetic.
type ErrorKind int

const (
	// KindOutOfRange is a bit index outside the declared polynomial length.
	KindOutOfRange ErrorKind = iota + 1
	// KindLengthMismatch is an operand length or dimension mismatch.
	KindLengthMismatch
	// KindDivisionByZero is a modulo operation with a zero divisor.
	KindDivisionByZero
	// KindNotInvertible is a singular matrix passed to Invert.
	KindNotInvertible
)

func (k ErrorKind) String() string {
	switch k {
	case KindOutOfRange:
		return "out of range"
	case KindLengthMismatch:
		return "length mismatch"
	case KindDivisionByZero:
		return "division by zero"
	case KindNotInvertible:
		return "matrix is not invertible"
	default:
		return "unknown error"
	}
}

// Error is returned by every failing operation in this package.
type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
}

func (e *Error) Error() string {
	msg := "gf2"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	msg += ": " + e.Kind.String()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is reports whether target is an *Error of the same kind, so the
// sentinels below match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrOutOfRange     = &Error{Kind: KindOutOfRange}
	ErrLengthMismatch = &Error{Kind: KindLengthMismatch}
	ErrDivisionByZero = &Error{Kind: KindDivisionByZero}
	ErrNotInvertible  = &Error{Kind: KindNotInvertible}
)

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, op string, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
	}
}

package eval

import (
	"errors"
	"fmt"
)

var (
	ErrVariableNotFound  = errors.New("variable not found")
	ErrInvalidInteger    = errors.New("invalid integer literal")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrNegativeExponent  = errors.New("negative exponent")
	ErrFunctionNotFound  = errors.New("function not found")
	ErrCallsUnsupported  = errors.New("function calls not supported")
	ErrArityMismatch     = errors.New("argument count mismatch")
	ErrCallDepthExceeded = errors.New("call depth exceeded")
	ErrMalformedTree     = errors.New("malformed syntax tree")
)

// EvalError is a runtime failure at a source position. Kind is one of the
// package sentinels, so callers can test it with errors.Is.
type EvalError struct {
	Kind   error
	Row    int
	Col    int
	Detail string
}

func (e *EvalError) Error() string {
	msg := fmt.Sprintf("line:%d, column:%d, runtime error, %v", e.Row, e.Col, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *EvalError) Unwrap() error {
	return e.Kind
}

package parser

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedToken = errors.New("squirrel: unexpected token")
	ErrInvalidExpr     = errors.New("squirrel: invalid expression")
)

// UnexpectedTokenError is a grammar mismatch. Expected names a token kind
// (e.g. "From") or a class in angle brackets (e.g. "<ident>", "<stmt>");
// Found is the debug form of the offending token.
type UnexpectedTokenError struct {
	Expected string
	Found    string
	Pos      int
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token at offset %d: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

func (e *UnexpectedTokenError) Unwrap() error { return ErrUnexpectedToken }

// InvalidExprError carries literal text that could not be converted.
type InvalidExprError struct {
	Text string
	Pos  int
	Msg  string
}

func (e *InvalidExprError) Error() string {
	return fmt.Sprintf("invalid expression at offset %d: %s: %s", e.Pos, e.Msg, e.Text)
}

func (e *InvalidExprError) Unwrap() error { return ErrInvalidExpr }

package squirrelwire

import (
	"errors"

	"github.com/tuannm99/squirrel/internal/sql/lexer"
	"github.com/tuannm99/squirrel/internal/sql/parser"
)

// ParseRequest asks the server to parse one batch of query text.
type ParseRequest struct {
	ID  uint64 `json:"id"`
	SQL string `json:"sql"`
}

// Statement is one parsed statement in canonical SQL form.
type Statement struct {
	Kind string `json:"kind"`
	SQL  string `json:"sql"`
}

// Error kinds carried in ParseError.Kind.
const (
	ErrKindLex             = "lex"
	ErrKindUnexpectedToken = "unexpected_token"
	ErrKindInvalidExpr     = "invalid_expr"
	ErrKindRequest         = "request"
)

type ParseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Pos     int    `json:"pos"`
}

func (e *ParseError) Error() string { return e.Message }

// ParseResponse answers the request with the same ID. Exactly one of
// Statements and Error is meaningful.
type ParseResponse struct {
	ID         uint64      `json:"id"`
	Session    string      `json:"session"`
	Statements []Statement `json:"statements,omitempty"`
	Error      *ParseError `json:"error,omitempty"`
}

func statementsOf(stmts []parser.Statement) []Statement {
	out := make([]Statement, len(stmts))
	for i, s := range stmts {
		out[i] = Statement{Kind: parser.Kind(s), SQL: s.String()}
	}
	return out
}

// toParseError classifies err into the wire error taxonomy.
func toParseError(err error) *ParseError {
	var (
		lexErr *lexer.Error
		utErr  *parser.UnexpectedTokenError
		ieErr  *parser.InvalidExprError
	)
	switch {
	case errors.As(err, &lexErr):
		return &ParseError{Kind: ErrKindLex, Message: err.Error(), Pos: lexErr.Pos}
	case errors.As(err, &utErr):
		return &ParseError{Kind: ErrKindUnexpectedToken, Message: err.Error(), Pos: utErr.Pos}
	case errors.As(err, &ieErr):
		return &ParseError{Kind: ErrKindInvalidExpr, Message: err.Error(), Pos: ieErr.Pos}
	default:
		return &ParseError{Kind: ErrKindRequest, Message: err.Error(), Pos: -1}
	}
}

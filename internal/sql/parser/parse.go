// Package parser builds an AST from query text.
//
// It is a recursive-descent parser over the lexer's token stream with one
// token of lookahead. A parse either yields every statement in the input or
// the first error; no partial result is ever returned.
package parser

import (
	"strconv"

	"github.com/tuannm99/squirrel/internal/sql/lexer"
)

// Parser holds the token window of a single parse. Not safe for concurrent
// use; create one per query.
type Parser struct {
	lexer *lexer.Lexer
	curr  lexer.Token
	peek  lexer.Token
}

// New primes the current and lookahead tokens from src.
func New(src string) (*Parser, error) {
	lx := lexer.New(src)
	curr, err := lx.Next()
	if err != nil {
		return nil, err
	}
	peek, err := lx.Next()
	if err != nil {
		return nil, err
	}
	return &Parser{lexer: lx, curr: curr, peek: peek}, nil
}

// Parse parses every statement in sql.
func Parse(sql string) ([]Statement, error) {
	p, err := New(sql)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// ParseExpr parses sql as one standalone expression.
func ParseExpr(sql string) (Expr, error) {
	p, err := New(sql)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.curr.Is(lexer.EOF) {
		return nil, unexpected(lexer.EOF.String(), p.curr)
	}
	return e, nil
}

// advance returns the current token and shifts the window by one.
func (p *Parser) advance() (lexer.Token, error) {
	next, err := p.lexer.Next()
	if err != nil {
		return lexer.Token{}, err
	}
	tok := p.curr
	p.curr, p.peek = p.peek, next
	return tok, nil
}

// expect consumes the current token if it has kind k.
func (p *Parser) expect(k lexer.Kind) error {
	if !p.curr.Is(k) {
		return unexpected(k.String(), p.curr)
	}
	_, err := p.advance()
	return err
}

// maybe consumes the current token if it has kind k and reports whether it did.
func (p *Parser) maybe(k lexer.Kind) (bool, error) {
	if !p.curr.Is(k) {
		return false, nil
	}
	if _, err := p.advance(); err != nil {
		return false, err
	}
	return true, nil
}

func unexpected(expected string, found lexer.Token) error {
	return &UnexpectedTokenError{Expected: expected, Found: found.String(), Pos: found.Pos}
}

// Parse parses statements until end of input. Bare ';' separators are
// skipped wherever they appear.
func (p *Parser) Parse() ([]Statement, error) {
	stmts := []Statement{}
	for !p.curr.Is(lexer.EOF) {
		if p.curr.Is(lexer.Semicolon) {
			if _, err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseStatement parses the statement starting at the current token.
func (p *Parser) ParseStatement() (Statement, error) {
	switch p.curr.Kind {
	case lexer.Create:
		return p.parseCreate()
	case lexer.Insert:
		return p.parseInsert()
	case lexer.Select:
		return p.parseQuery()
	case lexer.Update:
		return p.parseUpdate()
	case lexer.Delete:
		return p.parseDelete()
	case lexer.Drop:
		return p.parseDrop()
	default:
		return nil, unexpected("<stmt>", p.curr)
	}
}

func (p *Parser) consumeIdent() (string, error) {
	tok, err := p.advance()
	if err != nil {
		return "", err
	}
	if !tok.Is(lexer.Ident) {
		return "", unexpected("<ident>", tok)
	}
	return tok.Text, nil
}

// listNext consumes the token after a parenthesised list element and
// reports whether another element follows.
func (p *Parser) listNext() (bool, error) {
	tok, err := p.advance()
	if err != nil {
		return false, err
	}
	switch tok.Kind {
	case lexer.Comma:
		return true, nil
	case lexer.RParen:
		return false, nil
	default:
		return false, unexpected("',' or ')'", tok)
	}
}

// CREATE TABLE <table> (<col> <type>, ...)
func (p *Parser) parseCreate() (Statement, error) {
	if err := p.expect(lexer.Create); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Table); err != nil {
		return nil, err
	}
	table, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	var defs []ColumnDef
	for more := true; more; {
		name, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		typ, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		defs = append(defs, ColumnDef{Name: name, Type: typ})
		if more, err = p.listNext(); err != nil {
			return nil, err
		}
	}

	return &CreateTableStmt{
		Table:   table,
		Defs:    &DefsClause{Defs: defs},
		Clauses: []Clause{},
	}, nil
}

// INSERT INTO <table> [(<col>, ...)] VALUES (<expr>, ...)
func (p *Parser) parseInsert() (Statement, error) {
	if err := p.expect(lexer.Insert); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Into); err != nil {
		return nil, err
	}
	table, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	columns := []string{}
	paren, err := p.maybe(lexer.LParen)
	if err != nil {
		return nil, err
	}
	for more := paren; more; {
		col, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
		if more, err = p.listNext(); err != nil {
			return nil, err
		}
	}

	if err := p.expect(lexer.Values); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var values []Expr
	for more := true; more; {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if more, err = p.listNext(); err != nil {
			return nil, err
		}
	}

	return &InsertStmt{
		Table:   table,
		Columns: &ColumnsClause{Columns: columns},
		Values:  &ValuesClause{Values: values},
		Clauses: []Clause{},
	}, nil
}

// parseQuery parses a SELECT optionally chained with UNION [ALL].
// Chains fold to the left: a UNION b UNION c is (a UNION b) UNION c.
func (p *Parser) parseQuery() (Statement, error) {
	var left Statement
	left, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	for p.curr.Is(lexer.Union) {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		all, err := p.maybe(lexer.All)
		if err != nil {
			return nil, err
		}
		right, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		left = &UnionStmt{Left: left, Right: right, All: all}
	}
	return left, nil
}

// SELECT * | <col>, ... FROM <table> [WHERE ...] [ORDER BY ...] [LIMIT n]
func (p *Parser) parseSelect() (*SelectStmt, error) {
	if err := p.expect(lexer.Select); err != nil {
		return nil, err
	}

	var columns []string
	star, err := p.maybe(lexer.Mul)
	if err != nil {
		return nil, err
	}
	if star {
		columns = []string{Wildcard}
	}
	for more := !star; more; {
		col, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
		if more, err = p.maybe(lexer.Comma); err != nil {
			return nil, err
		}
	}

	if err := p.expect(lexer.From); err != nil {
		return nil, err
	}
	table, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	clauses, err := p.parseWhere([]Clause{})
	if err != nil {
		return nil, err
	}
	if clauses, err = p.parseOrderBy(clauses); err != nil {
		return nil, err
	}
	if clauses, err = p.parseLimit(clauses); err != nil {
		return nil, err
	}

	return &SelectStmt{
		Table:   table,
		Columns: &ColumnsClause{Columns: columns},
		Clauses: clauses,
	}, nil
}

// UPDATE <table> SET <col> = <expr>, ... [WHERE ...]
func (p *Parser) parseUpdate() (Statement, error) {
	if err := p.expect(lexer.Update); err != nil {
		return nil, err
	}
	table, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Set); err != nil {
		return nil, err
	}

	var assigns []Assignment
	for more := true; more; {
		col, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.Eq); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, Assignment{Column: col, Value: val})
		if more, err = p.maybe(lexer.Comma); err != nil {
			return nil, err
		}
	}

	clauses, err := p.parseWhere([]Clause{})
	if err != nil {
		return nil, err
	}
	return &UpdateStmt{
		Table:   table,
		Assigns: &AssignsClause{Assigns: assigns},
		Clauses: clauses,
	}, nil
}

// DELETE FROM <table> [WHERE ...]
func (p *Parser) parseDelete() (Statement, error) {
	if err := p.expect(lexer.Delete); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.From); err != nil {
		return nil, err
	}
	table, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	clauses, err := p.parseWhere([]Clause{})
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{Table: table, Clauses: clauses}, nil
}

// DROP TABLE <table>
func (p *Parser) parseDrop() (Statement, error) {
	if err := p.expect(lexer.Drop); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Table); err != nil {
		return nil, err
	}
	table, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	return &DropTableStmt{Table: table}, nil
}

func (p *Parser) parseWhere(clauses []Clause) ([]Clause, error) {
	ok, err := p.maybe(lexer.Where)
	if err != nil || !ok {
		return clauses, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return append(clauses, &WhereClause{Expr: e}), nil
}

// ORDER BY <col> [ASC|DESC], ...
func (p *Parser) parseOrderBy(clauses []Clause) ([]Clause, error) {
	ok, err := p.maybe(lexer.Order)
	if err != nil || !ok {
		return clauses, err
	}
	if err := p.expect(lexer.By); err != nil {
		return nil, err
	}

	var items []OrderItem
	for more := true; more; {
		col, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		item := OrderItem{Column: col, Asc: true}
		switch p.curr.Kind {
		case lexer.Asc:
			_, err = p.advance()
		case lexer.Desc:
			item.Asc = false
			_, err = p.advance()
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if more, err = p.maybe(lexer.Comma); err != nil {
			return nil, err
		}
	}
	return append(clauses, &OrderByClause{Items: items}), nil
}

// LIMIT <non-negative integer>
func (p *Parser) parseLimit(clauses []Clause) ([]Clause, error) {
	ok, err := p.maybe(lexer.Limit)
	if err != nil || !ok {
		return clauses, err
	}
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	if !tok.Is(lexer.Num) {
		return nil, unexpected("<number>", tok)
	}
	n, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return nil, &InvalidExprError{Text: tok.Text, Pos: tok.Pos, Msg: "invalid LIMIT"}
	}
	return append(clauses, &LimitClause{Count: n}), nil
}

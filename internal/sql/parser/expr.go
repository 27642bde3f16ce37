package parser

import (
	"strconv"
	"strings"

	"github.com/tuannm99/squirrel/internal/sql/lexer"
)

// Precedence, lowest first:
//
//	OR
//	AND
//	NOT
//	= != > < >= <=   (at most one per operand pair)
//	+ -
//	* /
//	unary -
//	literal, identifier, ( expr )
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.maybe(lexer.Or)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "OR", Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalAnd() (Expr, error) {
	left, err := p.parseLogicalNot()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.maybe(lexer.And)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseLogicalNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "AND", Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalNot() (Expr, error) {
	ok, err := p.maybe(lexer.Not)
	if err != nil {
		return nil, err
	}
	if !ok {
		return p.parseComparison()
	}
	operand, err := p.parseLogicalNot()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: "NOT", Operand: operand}, nil
}

var comparisonOps = map[lexer.Kind]string{
	lexer.Eq: "=",
	lexer.Ne: "!=",
	lexer.Gt: ">",
	lexer.Lt: "<",
	lexer.Ge: ">=",
	lexer.Le: "<=",
}

// parseComparison binds at most one comparison operator; a = b = c leaves
// the second '=' for the caller to reject.
func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.curr.Kind]
	if !ok {
		return left, nil
	}
	if _, err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curr.Is(lexer.Add) || p.curr.Is(lexer.Sub) {
		op, err := p.advance()
		if err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curr.Is(lexer.Mul) || p.curr.Is(lexer.Div) {
		op, err := p.advance()
		if err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary folds a minus directly followed by a numeric literal into a
// negative literal, so the most negative int64 is expressible.
func (p *Parser) parseUnary() (Expr, error) {
	if !p.curr.Is(lexer.Sub) {
		return p.parsePrimary()
	}
	minus, err := p.advance()
	if err != nil {
		return nil, err
	}
	if p.curr.Is(lexer.Num) {
		num, err := p.advance()
		if err != nil {
			return nil, err
		}
		return numberExpr("-"+num.Text, minus.Pos)
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: "-", Operand: operand}, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.Null:
		return &NullExpr{}, nil
	case lexer.Bool:
		return &BoolExpr{Value: tok.Bool}, nil
	case lexer.Num:
		return numberExpr(tok.Text, tok.Pos)
	case lexer.Text:
		return &TextExpr{Value: tok.Text}, nil
	case lexer.Ident:
		return &IdentExpr{Name: tok.Text}, nil
	case lexer.LParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, unexpected("<expr>", tok)
	}
}

// numberExpr resolves raw numeric text: integer first, then float. Only
// decimal notation is accepted, so hex floats such as 0x1p4 are rejected.
func numberExpr(text string, pos int) (Expr, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &IntExpr{Value: i}, nil
	}
	if !strings.ContainsAny(text, "xXpP_") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return &FloatExpr{Value: f}, nil
		}
	}
	return nil, &InvalidExprError{Text: text, Pos: pos, Msg: "invalid number"}
}

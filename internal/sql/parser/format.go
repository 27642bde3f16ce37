package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tuannm99/squirrel/internal/sql/lexer"
)

// String methods render nodes back to SQL. Binary and unary expressions are
// fully parenthesised, so the output re-parses to an equal tree.

func (s *CreateTableStmt) String() string {
	return "CREATE TABLE " + quoteIdent(s.Table) + " " + s.Defs.String() + clausesSQL(s.Clauses)
}

func (s *InsertStmt) String() string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(s.Table))
	if s.Columns != nil && len(s.Columns.Columns) > 0 {
		b.WriteString(" (")
		b.WriteString(s.Columns.String())
		b.WriteString(")")
	}
	b.WriteString(" ")
	b.WriteString(s.Values.String())
	b.WriteString(clausesSQL(s.Clauses))
	return b.String()
}

func (s *SelectStmt) String() string {
	return "SELECT " + s.Columns.String() + " FROM " + quoteIdent(s.Table) + clausesSQL(s.Clauses)
}

func (s *UpdateStmt) String() string {
	return "UPDATE " + quoteIdent(s.Table) + " " + s.Assigns.String() + clausesSQL(s.Clauses)
}

func (s *DeleteStmt) String() string {
	return "DELETE FROM " + quoteIdent(s.Table) + clausesSQL(s.Clauses)
}

func (s *DropTableStmt) String() string {
	return "DROP TABLE " + quoteIdent(s.Table)
}

func (s *UnionStmt) String() string {
	op := " UNION "
	if s.All {
		op = " UNION ALL "
	}
	return s.Left.String() + op + s.Right.String()
}

func clausesSQL(clauses []Clause) string {
	var b strings.Builder
	for _, c := range clauses {
		b.WriteByte(' ')
		b.WriteString(c.String())
	}
	return b.String()
}

func (c *ValuesClause) String() string {
	return "VALUES (" + joinExprs(c.Values) + ")"
}

func (c *ColumnsClause) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		if col == Wildcard {
			parts[i] = Wildcard
			continue
		}
		parts[i] = quoteIdent(col)
	}
	return strings.Join(parts, ", ")
}

func (c *AssignsClause) String() string {
	parts := make([]string, len(c.Assigns))
	for i, a := range c.Assigns {
		parts[i] = quoteIdent(a.Column) + " = " + a.Value.String()
	}
	return "SET " + strings.Join(parts, ", ")
}

func (c *DefsClause) String() string {
	parts := make([]string, len(c.Defs))
	for i, d := range c.Defs {
		parts[i] = quoteIdent(d.Name) + " " + quoteIdent(d.Type)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (c *OrderByClause) String() string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		dir := " ASC"
		if !it.Asc {
			dir = " DESC"
		}
		parts[i] = quoteIdent(it.Column) + dir
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

func (c *WhereClause) String() string {
	return "WHERE " + c.Expr.String()
}

func (c *LimitClause) String() string {
	return "LIMIT " + strconv.FormatUint(c.Count, 10)
}

func (*NullExpr) String() string { return "NULL" }

func (e *BoolExpr) String() string {
	if e.Value {
		return "TRUE"
	}
	return "FALSE"
}

func (e *IntExpr) String() string { return strconv.FormatInt(e.Value, 10) }

func (e *FloatExpr) String() string {
	s := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (e *TextExpr) String() string {
	return "'" + strings.ReplaceAll(e.Value, "'", "''") + "'"
}

func (e *IdentExpr) String() string { return quoteIdent(e.Name) }

func (e *UnaryExpr) String() string {
	if e.Op == "NOT" {
		return "(NOT " + e.Operand.String() + ")"
	}
	switch e.Operand.(type) {
	case *IntExpr, *FloatExpr:
		// keep the literal from being folded into a negative number
		return "(" + e.Op + "(" + e.Operand.String() + "))"
	}
	return "(" + e.Op + " " + e.Operand.String() + ")"
}

func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op + " " + e.Right.String() + ")"
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// quoteIdent double-quotes names that would not lex back as an identifier.
func quoteIdent(name string) string {
	if isPlainIdent(name) && !lexer.IsKeyword(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

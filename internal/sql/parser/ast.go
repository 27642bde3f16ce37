package parser

// Statement is the root interface for all SQL statements.
type Statement interface {
	stmtNode()
	String() string
}

// Clause is a statement-scoped sub-structure such as a column list or WHERE.
type Clause interface {
	clauseNode()
	String() string
}

// Expr is a scalar expression.
type Expr interface {
	exprNode()
	String() string
}

// Wildcard is the single column name produced by SELECT *.
const Wildcard = "*"

// ----- statements -----

type CreateTableStmt struct {
	Table   string
	Defs    *DefsClause
	Clauses []Clause
}

// InsertStmt with an empty Columns list targets all columns in declaration order.
type InsertStmt struct {
	Table   string
	Columns *ColumnsClause
	Values  *ValuesClause
	Clauses []Clause
}

// SelectStmt with Columns == [Wildcard] selects every column.
type SelectStmt struct {
	Table   string
	Columns *ColumnsClause
	Clauses []Clause
}

type UpdateStmt struct {
	Table   string
	Assigns *AssignsClause
	Clauses []Clause
}

type DeleteStmt struct {
	Table   string
	Clauses []Clause
}

type DropTableStmt struct {
	Table string
}

type UnionStmt struct {
	Left  Statement
	Right Statement
	All   bool
}

func (*CreateTableStmt) stmtNode() {}
func (*InsertStmt) stmtNode()      {}
func (*SelectStmt) stmtNode()      {}
func (*UpdateStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}
func (*DropTableStmt) stmtNode()   {}
func (*UnionStmt) stmtNode()       {}

// Kind returns the leading keyword of stmt.
func Kind(stmt Statement) string {
	switch stmt.(type) {
	case *CreateTableStmt:
		return "CREATE"
	case *InsertStmt:
		return "INSERT"
	case *SelectStmt:
		return "SELECT"
	case *UpdateStmt:
		return "UPDATE"
	case *DeleteStmt:
		return "DELETE"
	case *DropTableStmt:
		return "DROP"
	case *UnionStmt:
		return "UNION"
	default:
		return "UNKNOWN"
	}
}

// ----- clauses -----

type ValuesClause struct {
	Values []Expr
}

type ColumnsClause struct {
	Columns []string
}

type Assignment struct {
	Column string
	Value  Expr
}

type AssignsClause struct {
	Assigns []Assignment
}

type ColumnDef struct {
	Name string
	Type string
}

type DefsClause struct {
	Defs []ColumnDef
}

type OrderItem struct {
	Column string
	Asc    bool
}

type OrderByClause struct {
	Items []OrderItem
}

type WhereClause struct {
	Expr Expr
}

type LimitClause struct {
	Count uint64
}

func (*ValuesClause) clauseNode()  {}
func (*ColumnsClause) clauseNode() {}
func (*AssignsClause) clauseNode() {}
func (*DefsClause) clauseNode()    {}
func (*OrderByClause) clauseNode() {}
func (*WhereClause) clauseNode()   {}
func (*LimitClause) clauseNode()   {}

// WhereOf returns the filter in clauses, if any.
func WhereOf(clauses []Clause) (Expr, bool) {
	for _, c := range clauses {
		if w, ok := c.(*WhereClause); ok {
			return w.Expr, true
		}
	}
	return nil, false
}

// OrderByOf returns the sort keys in clauses, if any.
func OrderByOf(clauses []Clause) ([]OrderItem, bool) {
	for _, c := range clauses {
		if o, ok := c.(*OrderByClause); ok {
			return o.Items, true
		}
	}
	return nil, false
}

// LimitOf returns the row limit in clauses, if any.
func LimitOf(clauses []Clause) (uint64, bool) {
	for _, c := range clauses {
		if l, ok := c.(*LimitClause); ok {
			return l.Count, true
		}
	}
	return 0, false
}

// ----- expressions -----

type NullExpr struct{}

type BoolExpr struct {
	Value bool
}

type IntExpr struct {
	Value int64
}

type FloatExpr struct {
	Value float64
}

type TextExpr struct {
	Value string
}

type IdentExpr struct {
	Name string
}

// UnaryExpr is NOT x or -x.
type UnaryExpr struct {
	Op      string
	Operand Expr
}

// BinaryExpr covers logical, comparison and arithmetic operators. Op is the
// operator as written in SQL: "AND", "OR", "=", "!=", ">", "<", ">=", "<=",
// "+", "-", "*", "/".
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*NullExpr) exprNode()   {}
func (*BoolExpr) exprNode()   {}
func (*IntExpr) exprNode()    {}
func (*FloatExpr) exprNode()  {}
func (*TextExpr) exprNode()   {}
func (*IdentExpr) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}

package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/squirrel/internal/sql/lexer"
)

func parseOne(t *testing.T, sql string) Statement {
	t.Helper()
	stmts, err := Parse(sql)
	require.NoError(t, err, "Parse(%q)", sql)
	require.Len(t, stmts, 1, "Parse(%q)", sql)
	return stmts[0]
}

func bin(op string, l, r Expr) Expr { return &BinaryExpr{Op: op, Left: l, Right: r} }
func ident(name string) Expr       { return &IdentExpr{Name: name} }
func num(v int64) Expr             { return &IntExpr{Value: v} }
func text(v string) Expr           { return &TextExpr{Value: v} }

func requireUnexpected(t *testing.T, err error, expected, found string) *UnexpectedTokenError {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnexpectedToken), "want ErrUnexpectedToken, got %v", err)

	var ut *UnexpectedTokenError
	require.True(t, errors.As(err, &ut))
	assert.Equal(t, expected, ut.Expected)
	assert.Equal(t, found, ut.Found)
	return ut
}

func TestParse_DropTable(t *testing.T) {
	stmt := parseOne(t, "DROP TABLE users")
	assert.Equal(t, &DropTableStmt{Table: "users"}, stmt)
}

func TestParse_CreateTable(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE users (id INT, name TEXT, active BOOL)")
	assert.Equal(t, &CreateTableStmt{
		Table: "users",
		Defs: &DefsClause{Defs: []ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "name", Type: "TEXT"},
			{Name: "active", Type: "BOOL"},
		}},
		Clauses: []Clause{},
	}, stmt)
}

func TestParse_CreateTable_Invalid(t *testing.T) {
	_, err := Parse("CREATE TABLE users id INT, name TEXT")
	requireUnexpected(t, err, "LParen", `Ident("id")`)

	_, err = Parse("CREATE TABLE users ()")
	requireUnexpected(t, err, "<ident>", "RParen")

	_, err = Parse("CREATE TABLE users (id)")
	requireUnexpected(t, err, "<ident>", "RParen")

	_, err = Parse("CREATE TABLE users (id INT name TEXT)")
	requireUnexpected(t, err, "',' or ')'", `Ident("name")`)

	_, err = Parse("CREATE users (id INT)")
	requireUnexpected(t, err, "Table", `Ident("users")`)
}

func TestParse_Insert(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO users (id, name) VALUES (1, 'Alice')")
	assert.Equal(t, &InsertStmt{
		Table:   "users",
		Columns: &ColumnsClause{Columns: []string{"id", "name"}},
		Values:  &ValuesClause{Values: []Expr{num(1), text("Alice")}},
		Clauses: []Clause{},
	}, stmt)
}

func TestParse_Insert_AllColumns(t *testing.T) {
	stmt := parseOne(t, "insert into users values (1, 'abc', true, NULL, 2.5)")
	s, ok := stmt.(*InsertStmt)
	require.True(t, ok, "want *InsertStmt, got %T", stmt)

	assert.Equal(t, "users", s.Table)
	assert.NotNil(t, s.Columns.Columns)
	assert.Empty(t, s.Columns.Columns)
	assert.Equal(t, []Expr{
		num(1), text("abc"), &BoolExpr{Value: true}, &NullExpr{}, &FloatExpr{Value: 2.5},
	}, s.Values.Values)
}

func TestParse_Insert_Invalid(t *testing.T) {
	_, err := Parse("INSERT INTO users (id, name VALUES (1)")
	requireUnexpected(t, err, "',' or ')'", "Values")

	_, err = Parse("INSERT INTO users (id) VALUES (1 2)")
	requireUnexpected(t, err, "',' or ')'", `Num("2")`)

	_, err = Parse("INSERT users VALUES (1)")
	requireUnexpected(t, err, "Into", `Ident("users")`)

	_, err = Parse("INSERT INTO users (id) (1)")
	requireUnexpected(t, err, "Values", "LParen")

	_, err = Parse("INSERT INTO users VALUES ()")
	requireUnexpected(t, err, "<expr>", "RParen")
}

func TestParse_SelectStar(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users")
	assert.Equal(t, &SelectStmt{
		Table:   "users",
		Columns: &ColumnsClause{Columns: []string{Wildcard}},
		Clauses: []Clause{},
	}, stmt)
}

func TestParse_SelectColumns(t *testing.T) {
	stmt := parseOne(t, "SELECT id, name FROM users")
	assert.Equal(t, &SelectStmt{
		Table:   "users",
		Columns: &ColumnsClause{Columns: []string{"id", "name"}},
		Clauses: []Clause{},
	}, stmt)
}

func TestParse_SelectWhere(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users WHERE id = 1 AND name = 'Alice'")
	assert.Equal(t, &SelectStmt{
		Table:   "users",
		Columns: &ColumnsClause{Columns: []string{Wildcard}},
		Clauses: []Clause{
			&WhereClause{Expr: bin("AND",
				bin("=", ident("id"), num(1)),
				bin("=", ident("name"), text("Alice")),
			)},
		},
	}, stmt)
}

func TestParse_SelectOrderByLimit(t *testing.T) {
	stmt := parseOne(t, "SELECT id FROM users WHERE age > 18 ORDER BY name, id DESC, age ASC LIMIT 10")
	s, ok := stmt.(*SelectStmt)
	require.True(t, ok, "want *SelectStmt, got %T", stmt)
	require.Len(t, s.Clauses, 3)

	where, ok := WhereOf(s.Clauses)
	require.True(t, ok)
	assert.Equal(t, bin(">", ident("age"), num(18)), where)

	order, ok := OrderByOf(s.Clauses)
	require.True(t, ok)
	assert.Equal(t, []OrderItem{
		{Column: "name", Asc: true},
		{Column: "id", Asc: false},
		{Column: "age", Asc: true},
	}, order)

	limit, ok := LimitOf(s.Clauses)
	require.True(t, ok)
	assert.Equal(t, uint64(10), limit)
}

func TestParse_SelectLimitOnly(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM t LIMIT 0")
	s := stmt.(*SelectStmt)
	assert.Equal(t, []Clause{&LimitClause{Count: 0}}, s.Clauses)

	_, ok := WhereOf(s.Clauses)
	assert.False(t, ok)
	_, ok = OrderByOf(s.Clauses)
	assert.False(t, ok)
}

func TestParse_SelectLimit_Invalid(t *testing.T) {
	_, err := Parse("SELECT * FROM t LIMIT -1")
	requireUnexpected(t, err, "<number>", "Sub")

	_, err = Parse("SELECT * FROM t LIMIT 2.5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidExpr))

	_, err = Parse("SELECT * FROM t ORDER id")
	requireUnexpected(t, err, "By", `Ident("id")`)
}

func TestParse_Select_MissingColumns(t *testing.T) {
	_, err := Parse("SELECT FROM")
	ut := requireUnexpected(t, err, "<ident>", "From")
	assert.Equal(t, 7, ut.Pos)
	assert.Contains(t, err.Error(), "expected <ident>, found From")
}

func TestParse_Select_TrailingComma(t *testing.T) {
	_, err := Parse("SELECT id, FROM users")
	requireUnexpected(t, err, "<ident>", "From")
}

func TestParse_Union(t *testing.T) {
	stmt := parseOne(t, "SELECT a FROM t1 UNION SELECT a FROM t2 UNION ALL SELECT a FROM t3")

	sel := func(table string) *SelectStmt {
		return &SelectStmt{
			Table:   table,
			Columns: &ColumnsClause{Columns: []string{"a"}},
			Clauses: []Clause{},
		}
	}
	assert.Equal(t, &UnionStmt{
		Left:  &UnionStmt{Left: sel("t1"), Right: sel("t2"), All: false},
		Right: sel("t3"),
		All:   true,
	}, stmt)
	assert.Equal(t, "UNION", Kind(stmt))
}

func TestParse_Union_RequiresSelect(t *testing.T) {
	_, err := Parse("SELECT a FROM t UNION DELETE FROM t")
	requireUnexpected(t, err, "Select", "Delete")
}

func TestParse_Update(t *testing.T) {
	stmt := parseOne(t, "UPDATE users SET name='x', active=false WHERE id=1")
	assert.Equal(t, &UpdateStmt{
		Table: "users",
		Assigns: &AssignsClause{Assigns: []Assignment{
			{Column: "name", Value: text("x")},
			{Column: "active", Value: &BoolExpr{Value: false}},
		}},
		Clauses: []Clause{&WhereClause{Expr: bin("=", ident("id"), num(1))}},
	}, stmt)
}

func TestParse_Update_NoWhere(t *testing.T) {
	stmt := parseOne(t, "UPDATE users SET score = score + 1")
	s := stmt.(*UpdateStmt)
	assert.Equal(t, []Clause{}, s.Clauses)
	assert.Equal(t, bin("+", ident("score"), num(1)), s.Assigns.Assigns[0].Value)
}

func TestParse_Update_Invalid(t *testing.T) {
	_, err := Parse("UPDATE users WHERE id=1")
	requireUnexpected(t, err, "Set", "Where")

	_, err = Parse("UPDATE users SET name 'x'")
	requireUnexpected(t, err, "Eq", `Text("x")`)

	_, err = Parse("UPDATE users SET 1name='x'")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedToken))
}

func TestParse_Delete(t *testing.T) {
	stmt := parseOne(t, "DELETE FROM users WHERE id = 1")
	assert.Equal(t, &DeleteStmt{
		Table:   "users",
		Clauses: []Clause{&WhereClause{Expr: bin("=", ident("id"), num(1))}},
	}, stmt)
}

func TestParse_Delete_NoWhere(t *testing.T) {
	stmt := parseOne(t, "DELETE FROM users")
	assert.Equal(t, &DeleteStmt{Table: "users", Clauses: []Clause{}}, stmt)
}

func TestParse_Separators(t *testing.T) {
	a, err := Parse("DROP TABLE t;;;")
	require.NoError(t, err)
	b, err := Parse("DROP TABLE t")
	require.NoError(t, err)
	assert.Equal(t, b, a)
	assert.Len(t, a, 1)

	stmts, err := Parse(";;SELECT * FROM t;;")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.IsType(t, &SelectStmt{}, stmts[0])

	stmts, err = Parse(" ; ;\n ")
	require.NoError(t, err)
	assert.NotNil(t, stmts)
	assert.Empty(t, stmts)
}

func TestParse_MultipleStatementsInOrder(t *testing.T) {
	stmts, err := Parse(`
		CREATE TABLE t (id INT);
		INSERT INTO t VALUES (1);
		SELECT * FROM t;
		UPDATE t SET id = 2;
		DELETE FROM t;
		DROP TABLE t;
	`)
	require.NoError(t, err)

	var got []string
	for _, s := range stmts {
		got = append(got, Kind(s))
	}
	assert.Equal(t, []string{"CREATE", "INSERT", "SELECT", "UPDATE", "DELETE", "DROP"}, got)
}

func TestParse_BatchIsAllOrNothing(t *testing.T) {
	stmts, err := Parse("DROP TABLE a; DROP TABLE b; DROP b")
	requireUnexpected(t, err, "Table", `Ident("b")`)
	assert.Nil(t, stmts)
}

func TestParse_UnknownStatement(t *testing.T) {
	_, err := Parse("ALTER TABLE t ADD COLUMN x INT")
	requireUnexpected(t, err, "<stmt>", "Alter")

	_, err = Parse("users")
	requireUnexpected(t, err, "<stmt>", `Ident("users")`)
}

func TestParse_LexErrorsPropagate(t *testing.T) {
	cases := []string{
		"@",                           // during priming
		"SELECT * FROM t WHERE a = #", // mid-statement
		"INSERT INTO t VALUES ('abc",
	}
	for _, in := range cases {
		stmts, err := Parse(in)
		require.Error(t, err, in)
		assert.Nil(t, stmts, in)
		assert.True(t, errors.Is(err, lexer.ErrLex), "%q: %v", in, err)
		assert.False(t, errors.Is(err, ErrUnexpectedToken), in)
	}
}

func TestParser_ParseStatement(t *testing.T) {
	p, err := New("DELETE FROM a DROP TABLE b")
	require.NoError(t, err)

	s1, err := p.ParseStatement()
	require.NoError(t, err)
	assert.Equal(t, "DELETE", Kind(s1))

	s2, err := p.ParseStatement()
	require.NoError(t, err)
	assert.Equal(t, &DropTableStmt{Table: "b"}, s2)

	_, err = p.ParseStatement()
	requireUnexpected(t, err, "<stmt>", "Eof")
}

func TestKind(t *testing.T) {
	cases := map[string]Statement{
		"CREATE": &CreateTableStmt{},
		"INSERT": &InsertStmt{},
		"SELECT": &SelectStmt{},
		"UPDATE": &UpdateStmt{},
		"DELETE": &DeleteStmt{},
		"DROP":   &DropTableStmt{},
		"UNION":  &UnionStmt{},
	}
	for want, stmt := range cases {
		assert.Equal(t, want, Kind(stmt))
	}
	assert.Equal(t, "UNKNOWN", Kind(nil))
}

func TestParse_ReservedWordsNeedQuoting(t *testing.T) {
	_, err := Parse("CREATE TABLE t (id int, desc text)")
	ut := requireUnexpected(t, err, "<ident>", "Desc")
	assert.Equal(t, 24, ut.Pos)

	_, err = Parse("SELECT all FROM t")
	requireUnexpected(t, err, "<ident>", "All")

	stmt := parseOne(t, `CREATE TABLE t (id int, "desc" text)`)
	create := stmt.(*CreateTableStmt)
	assert.Equal(t, ColumnDef{Name: "desc", Type: "text"}, create.Defs.Defs[1])
	assert.Equal(t, `CREATE TABLE t (id int, "desc" text)`, create.String())

	stmt = parseOne(t, `SELECT "all" FROM t ORDER BY "desc" DESC`)
	sel := stmt.(*SelectStmt)
	assert.Equal(t, []string{"all"}, sel.Columns.Columns)
	items, ok := OrderByOf(sel.Clauses)
	require.True(t, ok)
	assert.Equal(t, []OrderItem{{Column: "desc", Asc: false}}, items)
}

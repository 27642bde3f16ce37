package lexer

import (
	"fmt"
	"strconv"
)

// Kind identifies a lexical token class.
type Kind int

const (
	EOF Kind = iota

	// Literals
	Null
	Bool
	Num
	Text
	Ident

	// Keywords
	Create
	Table
	Select
	From
	Where
	Update
	Alter
	Delete
	Drop
	Insert
	Into
	Values
	Set
	And
	Or
	Not
	Order
	By
	Asc
	Desc
	Limit
	Union
	All

	// Punctuation
	Dot       // .
	Comma     // ,
	Semicolon // ;
	LParen    // (
	RParen    // )

	// Operators
	Eq  // =
	Ne  // != or <>
	Gt  // >
	Lt  // <
	Ge  // >=
	Le  // <=
	Add // +
	Sub // -
	Mul // *
	Div // /
)

var kindNames = [...]string{
	EOF:       "Eof",
	Null:      "Null",
	Bool:      "Bool",
	Num:       "Num",
	Text:      "Text",
	Ident:     "Ident",
	Create:    "Create",
	Table:     "Table",
	Select:    "Select",
	From:      "From",
	Where:     "Where",
	Update:    "Update",
	Alter:     "Alter",
	Delete:    "Delete",
	Drop:      "Drop",
	Insert:    "Insert",
	Into:      "Into",
	Values:    "Values",
	Set:       "Set",
	And:       "And",
	Or:        "Or",
	Not:       "Not",
	Order:     "Order",
	By:        "By",
	Asc:       "Asc",
	Desc:      "Desc",
	Limit:     "Limit",
	Union:     "Union",
	All:       "All",
	Dot:       "Dot",
	Comma:     "Comma",
	Semicolon: "Semicolon",
	LParen:    "LParen",
	RParen:    "RParen",
	Eq:        "Eq",
	Ne:        "Ne",
	Gt:        "Gt",
	Lt:        "Lt",
	Ge:        "Ge",
	Le:        "Le",
	Add:       "Add",
	Sub:       "Sub",
	Mul:       "Mul",
	Div:       "Div",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// keywords maps the upper-cased spelling of every reserved word to its kind.
// TRUE/FALSE/NULL live here too so they can never become identifiers.
var keywords = map[string]Kind{
	"NULL":   Null,
	"TRUE":   Bool,
	"FALSE":  Bool,
	"CREATE": Create,
	"TABLE":  Table,
	"SELECT": Select,
	"FROM":   From,
	"WHERE":  Where,
	"UPDATE": Update,
	"ALTER":  Alter,
	"DELETE": Delete,
	"DROP":   Drop,
	"INSERT": Insert,
	"INTO":   Into,
	"VALUES": Values,
	"SET":    Set,
	"AND":    And,
	"OR":     Or,
	"NOT":    Not,
	"ORDER":  Order,
	"BY":     By,
	"ASC":    Asc,
	"DESC":   Desc,
	"LIMIT":  Limit,
	"UNION":  Union,
	"ALL":    All,
}

// IsKeyword reports whether word (any case) is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[upperASCII(word)]
	return ok
}

// Token is a single lexical unit. Text holds the payload of Num, Text and
// Ident tokens, the source spelling of keywords and operators otherwise.
type Token struct {
	Kind Kind
	Text string
	Bool bool
	Pos  int
}

// Is reports whether t has kind k. Payloads are not compared.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// String renders the token in debug form, e.g. Ident("users") or Select.
func (t Token) String() string {
	switch t.Kind {
	case Num, Text, Ident:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	case Bool:
		return fmt.Sprintf("Bool(%t)", t.Bool)
	default:
		return t.Kind.String()
	}
}

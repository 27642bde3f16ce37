// Package lexer turns query text into a stream of tokens.
//
// The lexer is pull based: each call to Next scans exactly one token and
// never revisits consumed input. Numeric literals are returned as raw text;
// deciding whether they are integers, floats or garbage is left to the parser.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrLex is matched by every error produced by the lexer.
var ErrLex = errors.New("squirrel: lexical error")

// Error reports the first unscannable input.
type Error struct {
	Pos  int
	Char rune
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Pos, e.Msg)
}

func (e *Error) Unwrap() error { return ErrLex }

// Lexer scans a single immutable source string. Not safe for concurrent use.
type Lexer struct {
	src string
	pos int
	err error
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Pos returns the byte offset of the next unscanned character.
func (l *Lexer) Pos() int { return l.pos }

// Next returns the next token. At end of input it returns an EOF token on
// every call. Once an error is returned, the same error is returned forever.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	tok, err := l.scan()
	if err != nil {
		l.err = err
		return Token{}, err
	}
	return tok, nil
}

// Tokenize scans all of src, EOF token included.
func Tokenize(src string) ([]Token, error) {
	l := New(src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) scan() (Token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	if start >= len(l.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[start:])
	switch {
	case r == '\'':
		return l.readText()
	case r == '"':
		return l.readQuotedIdent()
	case isDigit(r):
		return l.readNumber(), nil
	case isIdentStart(r):
		return l.readWord(), nil
	}

	if tok, ok := l.readOperator(); ok {
		return tok, nil
	}
	if r == utf8.RuneError && size <= 1 {
		return Token{}, &Error{Pos: start, Char: r, Msg: "invalid UTF-8 encoding"}
	}
	return Token{}, &Error{Pos: start, Char: r, Msg: fmt.Sprintf("unexpected character %q", r)}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsSpace(r) {
			l.pos += size
			continue
		}
		if r == '-' && l.peekByte(1) == '-' {
			l.pos += 2
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		return
	}
}

// readOperator handles punctuation and operators. Two-character operators
// are tried before their one-character prefixes.
func (l *Lexer) readOperator() (Token, bool) {
	start := l.pos
	two := ""
	if start+2 <= len(l.src) {
		two = l.src[start : start+2]
	}
	switch two {
	case ">=":
		return l.emit(Ge, 2), true
	case "<=":
		return l.emit(Le, 2), true
	case "!=", "<>":
		return l.emit(Ne, 2), true
	}

	var k Kind
	switch l.src[start] {
	case '.':
		k = Dot
	case ',':
		k = Comma
	case ';':
		k = Semicolon
	case '(':
		k = LParen
	case ')':
		k = RParen
	case '=':
		k = Eq
	case '>':
		k = Gt
	case '<':
		k = Lt
	case '+':
		k = Add
	case '-':
		k = Sub
	case '*':
		k = Mul
	case '/':
		k = Div
	default:
		return Token{}, false
	}
	return l.emit(k, 1), true
}

func (l *Lexer) emit(k Kind, width int) Token {
	tok := Token{Kind: k, Text: l.src[l.pos : l.pos+width], Pos: l.pos}
	l.pos += width
	return tok
}

// readNumber consumes a digit-led run of letters, digits and dots. A sign is
// accepted right after an exponent marker so 1e-3 stays one token.
func (l *Lexer) readNumber() Token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDigit(rune(c)) || c == '.' || isASCIILetter(c):
			l.pos++
			if (c == 'e' || c == 'E') && (l.peekByte(0) == '+' || l.peekByte(0) == '-') {
				l.pos++
			}
		default:
			return Token{Kind: Num, Text: l.src[start:l.pos], Pos: start}
		}
	}
	return Token{Kind: Num, Text: l.src[start:l.pos], Pos: start}
}

func (l *Lexer) readWord() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	word := l.src[start:l.pos]
	up := upperASCII(word)
	if k, ok := keywords[up]; ok {
		return Token{Kind: k, Text: word, Bool: k == Bool && up == "TRUE", Pos: start}
	}
	return Token{Kind: Ident, Text: word, Pos: start}
}

func (l *Lexer) readText() (Token, error) {
	start := l.pos
	body, ok := l.readQuoted('\'')
	if !ok {
		return Token{}, &Error{Pos: start, Char: '\'', Msg: "unterminated text literal"}
	}
	return Token{Kind: Text, Text: body, Pos: start}, nil
}

func (l *Lexer) readQuotedIdent() (Token, error) {
	start := l.pos
	body, ok := l.readQuoted('"')
	if !ok {
		return Token{}, &Error{Pos: start, Char: '"', Msg: "unterminated quoted identifier"}
	}
	if body == "" {
		return Token{}, &Error{Pos: start, Char: '"', Msg: "empty quoted identifier"}
	}
	return Token{Kind: Ident, Text: body, Pos: start}, nil
}

// readQuoted consumes a q-delimited body where qq stands for a literal q.
func (l *Lexer) readQuoted(q byte) (string, bool) {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == q {
			if l.peekByte(1) == q {
				b.WriteByte(q)
				l.pos += 2
				continue
			}
			l.pos++
			return b.String(), true
		}
		b.WriteByte(c)
		l.pos++
	}
	return "", false
}

func (l *Lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

// upperASCII folds only a-z so that non-ASCII letters never alias a keyword.
func upperASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'a' && c <= 'z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'a' && b[j] <= 'z' {
					b[j] -= 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

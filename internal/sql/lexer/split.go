package lexer

// StatementEnd returns the offset just past the first ';' in src that is not
// inside a text literal, a quoted identifier or a -- comment, or -1 when src
// holds no complete statement.
func StatementEnd(src string) int {
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			// '' and "" close and reopen, which leaves the state unchanged
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '-' && i+1 < len(src) && src[i+1] == '-':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == ';':
			return i + 1
		}
	}
	return -1
}

// ScanStatements is a bufio.SplitFunc yielding ';'-terminated statements,
// terminator included. Trailing input without a ';' is returned at EOF.
func ScanStatements(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := StatementEnd(string(data)); i >= 0 {
		return i, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

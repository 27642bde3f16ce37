// Package repl implements the interactive shell: it gathers lines into
// statements, parses them and prints the resulting statements or errors.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/tuannm99/squirrel/internal"
	"github.com/tuannm99/squirrel/internal/sql/lexer"
	"github.com/tuannm99/squirrel/internal/sql/parser"
)

var (
	ErrNoDatabase    = errors.New("squirrel: database does not exist")
	ErrQueryTooLarge = errors.New("squirrel: query too large")
)

// LineReader is the subset of *readline.Instance the shell needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	SaveHistory(content string) error
}

// CheckDatabase fails unless path names an existing file.
func CheckDatabase(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNoDatabase, path)
		}
		return fmt.Errorf("stat database: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrNoDatabase, path)
	}
	return nil
}

type Session struct {
	cfg      *internal.SquirrelConfig
	database string
	rl       LineReader
	out      io.Writer
	history  *History

	errColor *color.Color
	okColor  *color.Color
}

func NewSession(cfg *internal.SquirrelConfig, database string, rl LineReader, out io.Writer, h *History) *Session {
	if h == nil {
		h = NewHistory("")
	}
	return &Session{
		cfg:      cfg,
		database: database,
		rl:       rl,
		out:      out,
		history:  h,
		errColor: color.New(color.FgRed),
		okColor:  color.New(color.FgGreen),
	}
}

// Run reads until EOF or an exit command.
func (s *Session) Run() error {
	fmt.Fprintln(s.out, "SQuirreL REPL (type '.exit' to stop)")
	fmt.Fprintf(s.out, "DATABASE: %s\n", s.database)

	var buf strings.Builder
	s.rl.SetPrompt(s.cfg.REPL.Prompt)

	for {
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C drops the pending statement
			if buf.Len() > 0 {
				buf.Reset()
				s.rl.SetPrompt(s.cfg.REPL.Prompt)
				continue
			}
			fmt.Fprintln(s.out, "^C")
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && isMetaCommand(line) {
			if s.meta(line) {
				return nil
			}
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		if buf.Len() > s.cfg.Query.MaxBytes {
			s.printErr(fmt.Errorf("%w: more than %d bytes", ErrQueryTooLarge, s.cfg.Query.MaxBytes))
			buf.Reset()
			s.rl.SetPrompt(s.cfg.REPL.Prompt)
			continue
		}
		if !statementComplete(buf.String()) {
			s.rl.SetPrompt(s.cfg.REPL.ContinuePrompt)
			continue
		}

		sql := buf.String()
		buf.Reset()
		s.rl.SetPrompt(s.cfg.REPL.Prompt)

		if err := s.history.Append(sql); err != nil {
			slog.Warn("repl: append history", "err", err)
		}
		if err := s.rl.SaveHistory(compactOneLine(sql)); err != nil {
			slog.Warn("repl: save history", "err", err)
		}

		if err := s.Exec(sql); err != nil {
			s.printErr(err)
		}
	}
}

// Exec parses sql and prints one line per statement.
func (s *Session) Exec(sql string) error {
	if len(sql) > s.cfg.Query.MaxBytes {
		return fmt.Errorf("%w: more than %d bytes", ErrQueryTooLarge, s.cfg.Query.MaxBytes)
	}
	stmts, err := parser.Parse(sql)
	if err != nil {
		slog.Debug("repl: parse failed", "err", err)
		return err
	}
	for _, stmt := range stmts {
		fmt.Fprintf(s.out, "%s: %s\n", s.okColor.Sprint(parser.Kind(stmt)), stmt)
	}
	slog.Debug("repl: parsed", "statements", len(stmts))
	return nil
}

func (s *Session) printErr(err error) {
	fmt.Fprintln(s.out, s.errColor.Sprint("error: "+err.Error()))
}

func isMetaCommand(line string) bool {
	return strings.HasPrefix(line, ".") || strings.HasPrefix(line, "\\") ||
		line == "quit" || line == "exit"
}

const helpText = `meta commands:
  .exit | \q | quit | exit   quit
  .history                   print history
  .tokens <sql>              print the token stream of <sql>
  .help                      show help

sql:
  end statements with ';' (multiline input waits for it)
  CREATE TABLE, INSERT INTO, SELECT [... UNION ...], UPDATE, DELETE FROM, DROP TABLE`

// meta runs a meta command and reports whether the session should end.
func (s *Session) meta(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case ".exit", "\\q", "quit", "exit":
		return true
	case ".help", "\\help":
		fmt.Fprintln(s.out, helpText)
	case ".history", "\\history":
		s.history.Print(s.out, 50)
	case ".tokens":
		toks, err := lexer.Tokenize(arg)
		if err != nil {
			s.printErr(err)
			return false
		}
		parts := make([]string, len(toks))
		for i, tok := range toks {
			parts[i] = tok.String()
		}
		fmt.Fprintln(s.out, strings.Join(parts, " "))
	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", line)
	}
	return false
}

// statementComplete reports whether buf holds a ';' outside quotes and comments.
func statementComplete(buf string) bool {
	return lexer.StatementEnd(buf) >= 0
}

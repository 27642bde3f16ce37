package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/tuannm99/squirrel/internal/sql/lexer"
	"github.com/tuannm99/squirrel/server/squirrelwire"
	"github.com/tuannm99/squirrel/sqlclient"
)

func main() {
	app := cli.NewApp()
	app.Name = "squirrel-client"
	app.Usage = "send query text to a squirrel parse server"
	app.ArgsUsage = "[SQL]"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "addr", Value: "127.0.0.1:8866", Usage: "server address"},
		cli.DurationFlag{Name: "timeout", Value: 3 * time.Second, Usage: "dial and per-request timeout"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "squirrel-client: %v\n", err)
		os.Exit(1)
	}
}

// run parses the SQL argument, or every statement on stdin when no argument
// is given.
func run(c *cli.Context) error {
	timeout := c.Duration("timeout")
	client, err := sqlclient.Dial(c.String("addr"), timeout)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = client.Close() }()
	client.SetRWTimeout(timeout)

	if sql := strings.Join(c.Args(), " "); sql != "" {
		if err := send(client, sql); err != nil {
			var pe *squirrelwire.ParseError
			if errors.As(err, &pe) {
				return cli.NewExitError("parse failed", 1)
			}
			return err
		}
		return nil
	}

	return eachStatement(os.Stdin, func(sql string) error {
		err := send(client, sql)
		var pe *squirrelwire.ParseError
		if errors.As(err, &pe) {
			return nil
		}
		return err
	})
}

// eachStatement calls fn for every non-blank ';'-terminated statement in r.
// A ';' inside quotes or a comment does not end a statement.
func eachStatement(r io.Reader, fn func(sql string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), squirrelwire.MaxFrameSize)
	sc.Split(lexer.ScanStatements)
	for sc.Scan() {
		sql := strings.TrimSpace(sc.Text())
		if strings.TrimSpace(strings.TrimSuffix(sql, ";")) == "" {
			continue
		}
		if err := fn(sql); err != nil {
			return err
		}
	}
	return sc.Err()
}

func send(client *sqlclient.Client, sql string) error {
	stmts, err := client.Parse(sql)
	if err != nil {
		var pe *squirrelwire.ParseError
		if errors.As(err, &pe) {
			color.Red("error (%s): %s", pe.Kind, pe.Message)
		}
		return err
	}
	for _, s := range stmts {
		fmt.Printf("%s: %s\n", color.GreenString(s.Kind), s.SQL)
	}
	return nil
}

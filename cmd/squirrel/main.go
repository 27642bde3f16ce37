package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/urfave/cli"

	"github.com/tuannm99/squirrel/internal"
	"github.com/tuannm99/squirrel/internal/repl"
)

func main() {
	app := cli.NewApp()
	app.Name = "squirrel"
	app.Usage = "interactive shell for a squirrel database"
	app.ArgsUsage = "DATABASE"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a YAML config file",
		},
		cli.StringFlag{
			Name:  "history",
			Usage: "history file path (default ~/.squirrel_history)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "squirrel: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	database := c.Args().First()
	if database == "" {
		return cli.NewExitError("missing DATABASE argument", 2)
	}

	cfg, err := internal.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if _, err := internal.NewLogger(cfg, os.Stderr); err != nil {
		return err
	}

	if err := repl.CheckDatabase(database); err != nil {
		return err
	}

	histPath := c.String("history")
	if histPath == "" {
		histPath = cfg.REPL.HistoryFile
	}
	if histPath == "" {
		histPath = repl.DefaultHistoryPath()
	}
	h := repl.NewHistory(histPath)
	if err := h.Load(cfg.REPL.HistoryMax); err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.REPL.Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// so the up arrow works immediately
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	return repl.NewSession(cfg, database, rl, rl.Stdout(), h).Run()
}

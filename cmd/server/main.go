package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/tuannm99/squirrel/internal"
	"github.com/tuannm99/squirrel/server/squirrelwire"
)

func main() {
	app := cli.NewApp()
	app.Name = "squirrel-server"
	app.Usage = "serve query parsing over TCP"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a YAML config file",
		},
		cli.StringFlag{
			Name:  "addr",
			Usage: "listen address (overrides server.addr)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "squirrel-server: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := internal.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Server.Debug {
		cfg.Log.Level = "debug"
	}
	if _, err := internal.NewLogger(cfg, os.Stderr); err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if a := c.String("addr"); a != "" {
		addr = a
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return squirrelwire.Run(ctx, squirrelwire.ServerConfig{
		Addr:      addr,
		MaxBytes:  cfg.Query.MaxBytes,
		CacheSize: cfg.Server.CacheSize,
	})
}

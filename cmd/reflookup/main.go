package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/reflookup/internal/config"
	"github.com/kailas-cloud/reflookup/internal/version"
)

func main() {
	app := &cli.Command{
		Name:  "reflookup",
		Usage: "Tier-gated watch reference lookup service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Environment name used to pick config/<env>.yaml",
				Value: config.GetEnv(),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file path (overrides --env lookup)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			historyCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "reflookup:", err)
		os.Exit(1)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Println("reflookup", version.String())
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect stored search history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print a user's history, most recent first",
				Flags: []cli.Flag{userFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp(ctx, c)
					if err != nil {
						return err
					}
					defer a.close()

					entries, err := a.history.List(ctx, c.String("user"))
					if err != nil {
						return fmt.Errorf("list history: %w", err)
					}
					return printJSON(entries)
				},
			},
			{
				Name:  "clear",
				Usage: "Delete a user's history",
				Flags: []cli.Flag{userFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					a, err := newApp(ctx, c)
					if err != nil {
						return err
					}
					defer a.close()

					if err := a.history.Clear(ctx, c.String("user")); err != nil {
						return fmt.Errorf("clear history: %w", err)
					}
					fmt.Printf("history cleared for %s\n", c.String("user"))
					return nil
				},
			},
		},
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{Name: "user", Usage: "User id", Value: "cli"}
}

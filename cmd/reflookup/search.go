package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	"github.com/kailas-cloud/reflookup/internal/domain/session"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
	"github.com/kailas-cloud/reflookup/internal/usecase/presentation"
)

// fieldFlags maps CLI flag names to filter keys.
var fieldFlags = []struct {
	flag  string
	field filter.Field
}{
	{"reference", filter.Reference},
	{"brand", filter.Brand},
	{"condition", filter.Condition},
	{"color", filter.Color},
	{"material", filter.Material},
	{"year", filter.Year},
	{"price-min", filter.PriceMin},
	{"price-max", filter.PriceMax},
}

func searchCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "User id the search runs as", Value: "cli"},
		&cli.StringFlag{Name: "plan", Usage: "Subscription tier id; empty searches anonymously"},
		&cli.BoolFlag{Name: "advanced", Usage: "Open the advanced filter panel"},
	}
	for _, f := range fieldFlags {
		flags = append(flags, &cli.StringFlag{Name: f.flag, Usage: "Filter value for " + string(f.field)})
	}

	return &cli.Command{
		Name:  "search",
		Usage: "Run a single lookup and print the result as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := newApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.close()
			return runSearch(ctx, a, c)
		},
	}
}

type searchOutput struct {
	Dispatched   bool               `json:"dispatched"`
	Mode         string             `json:"mode,omitempty"`
	SkipReason   string             `json:"skip_reason,omitempty"`
	Outcome      string             `json:"outcome,omitempty"`
	Error        string             `json:"error,omitempty"`
	Presentation presentation.State `json:"presentation"`
}

func runSearch(ctx context.Context, a *app, c *cli.Command) error {
	sessions := a.registry()
	defer sessions.Close()

	e := sessions.Create()
	if plan := c.String("plan"); plan != "" {
		e.SetUser(&session.User{ID: c.String("user"), PlanID: plan})
	}

	for _, f := range fieldFlags {
		if v := c.String(f.flag); v != "" {
			if err := e.UpdateField(ctx, string(f.field), v); err != nil {
				return fmt.Errorf("set %s: %w", f.field, err)
			}
		}
	}
	if c.Bool("advanced") {
		if _, err := e.ToggleAdvanced(); err != nil {
			return fmt.Errorf("open advanced filters: %w", err)
		}
	}

	rep, err := e.Submit(ctx)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	e.Wait()

	return printJSON(searchResult(rep, e.Presentation()))
}

func searchResult(rep execution.Report, p presentation.State) searchOutput {
	out := searchOutput{
		Dispatched:   rep.Dispatched,
		SkipReason:   rep.SkipReason,
		Presentation: p,
	}
	if rep.Dispatched {
		out.Mode = string(rep.Mode)
		out.Outcome = string(rep.Outcome.Kind())
		if err := rep.Outcome.Err(); err != nil {
			out.Error = err.Error()
		}
	}
	return out
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

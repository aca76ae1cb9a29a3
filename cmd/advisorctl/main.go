// advisorctl runs the recommendation pipeline once from the terminal.
//
// Usage:
//   advisorctl recommend
//   advisorctl search --query "haircut near me"
//   advisorctl prompt search --query "haircut"
//   advisorctl outcomes --limit 10
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"service-advisor/internal/bootstrap"
	"service-advisor/internal/recommend"
	"service-advisor/internal/shared/config"
	"service-advisor/internal/shared/server/respond"
	"service-advisor/internal/shared/storage/db"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "advisorctl",
		Usage:   "Run service recommendations against the generative service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Override the generative model name",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Language of the generated Reason field",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding transactions.json and services.json",
			},
		},
		Commands: []*cli.Command{
			recommendCommand(),
			searchCommand(),
			promptCommand(),
			outcomesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Recommend services from the transaction history",
		Action: func(c *cli.Context) error {
			return runPipeline(c, recommend.OperationRecommend, func(ctx context.Context, svc *recommend.Service) (recommend.RecommendationSet, error) {
				return svc.Recommend(ctx)
			})
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the service catalog with a free-text query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Free-text query",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			query := c.String("query")
			return runPipeline(c, recommend.OperationSearch, func(ctx context.Context, svc *recommend.Service) (recommend.RecommendationSet, error) {
				return svc.Search(ctx, query)
			})
		},
	}
}

func promptCommand() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Print the rendered prompt without calling the generative service",
		Subcommands: []*cli.Command{
			{
				Name:  "recommend",
				Usage: "Render the transaction-driven prompt",
				Action: func(c *cli.Context) error {
					app, err := buildApp(c)
					if err != nil {
						return err
					}
					defer app.Close()
					ctx := c.Context
					transactions, err := app.Catalog.Transactions(ctx)
					if err != nil {
						return err
					}
					services, err := app.Catalog.Services(ctx)
					if err != nil {
						return err
					}
					req := recommend.RecommendRequest{Transactions: transactions, Services: services}
					_, err = fmt.Fprintln(c.App.Writer, req.Prompt(app.Service.Prompts))
					return err
				},
			},
			{
				Name:  "search",
				Usage: "Render the query-driven prompt",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					app, err := buildApp(c)
					if err != nil {
						return err
					}
					defer app.Close()
					services, err := app.Catalog.Services(c.Context)
					if err != nil {
						return err
					}
					req := recommend.SearchRequest{Query: strings.TrimSpace(c.String("query")), Services: services}
					_, err = fmt.Fprintln(c.App.Writer, req.Prompt(app.Service.Prompts))
					return err
				},
			},
		},
	}
}

func outcomesCommand() *cli.Command {
	return &cli.Command{
		Name:  "outcomes",
		Usage: "List recent pipeline outcomes from the audit store (requires DATABASE_URL)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20},
		},
		Action: func(c *cli.Context) error {
			app, err := buildApp(c)
			if err != nil {
				return err
			}
			defer app.Close()
			if app.DB == nil {
				return cli.Exit("DATABASE_URL is not configured; outcomes are only kept in memory by the server", 1)
			}
			outcomes, err := app.Outcomes.Recent(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, outcomes)
		},
	}
}

func runPipeline(c *cli.Context, op recommend.Operation, run func(context.Context, *recommend.Service) (recommend.RecommendationSet, error)) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := c.Context
	start := time.Now()
	set, err := run(ctx, app.Service)
	elapsed := time.Since(start)
	if err != nil {
		classified := recommend.Classify(err)
		app.Service.RecordOutcome(ctx, "cli-"+uuid.NewString(), op, recommend.RecommendationSet{}, &classified, elapsed)
		fmt.Fprintf(c.App.ErrWriter, "%s: %s\n", classified.Kind, classified.Diagnostic)
		if werr := writeJSON(c.App.Writer, respond.ErrorResponse{Error: respond.ErrorBody{
			Message: classified.Message,
			Type:    string(classified.Kind),
			Details: classified.Details,
		}}); werr != nil {
			return werr
		}
		return cli.Exit("", 1)
	}

	app.Service.RecordOutcome(ctx, "cli-"+uuid.NewString(), op, set, nil, elapsed)
	return writeJSON(c.App.Writer, set)
}

func buildApp(c *cli.Context) (*bootstrap.App, error) {
	if path := c.String("config"); path != "" {
		if err := os.Setenv("CONFIG_FILE", path); err != nil {
			return nil, err
		}
	}
	cfg := config.Load()
	if model := strings.TrimSpace(c.String("model")); model != "" {
		cfg.GeminiModel = model
	}
	if locale := strings.TrimSpace(c.String("locale")); locale != "" {
		cfg.Locale = locale
	}
	if dir := strings.TrimSpace(c.String("data-dir")); dir != "" {
		cfg.DataDir = dir
	}
	return bootstrap.BuildService(c.Context, cfg, db.DefaultMigrateOptions())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

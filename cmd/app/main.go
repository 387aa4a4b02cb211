package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/open-sspm/sspmdocs/internal"
	pkgconfig "github.com/open-sspm/sspmdocs/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		slog.Info("config file not found, using defaults", slog.String("path", configPath))
	}
	if src := cmd.String("source"); src != "" {
		cfg.Source.Location = src
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("watch") {
		cfg.Watch.Enabled = true
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithVersion(version),
		internal.WithLogOutput(os.Stderr),
	)
}

func fields(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.Args().First()
	if kind == "" {
		return fmt.Errorf("usage: %s fields <kind>", cmd.Root().Name)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.PrintFields(ctx, os.Stdout, kind, cmd.String("query"),
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	)
}

func main() {
	// Commands other than serve keep stdout for their own output.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	sourceFlag := &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage:   "Docs directory or http(s) base URL; overrides source.location",
		Sources: cli.EnvVars("SSPM_DOCS_SOURCE"),
	}

	cmd := &cli.Command{
		Name:    "sspmdocs",
		Usage:   "Browse the compiled Open SSPM descriptor and metaschemas",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			sourceFlag,
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the docs site, JSON API and live reload events",
				Action: serve,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Reload when the docs directory changes",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the docs as MCP tools over stdio",
				Action: mcp,
			},
			{
				Name:      "fields",
				Usage:     "Print the field table of a metaschema kind",
				ArgsUsage: "<kind>",
				Action:    fields,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Only print rows matching this text",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

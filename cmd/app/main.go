package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/postport/internal"
	"github.com/starford/postport/internal/apperr"
	pkgconfig "github.com/starford/postport/pkg/config"
)

// exitIncomplete is returned under --strict when some posts or files failed.
const exitIncomplete = 2

// loadConfig layers defaults, the optional config file and explicit flags.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("log-level") {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		cfg.App.LogLevel = level
	}
	if cmd.IsSet("log-format") {
		cfg.App.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("strict") {
		cfg.App.Strict = cmd.Bool("strict")
	}
	return cfg, nil
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("source") {
		cfg.Migrate.SourceRoot = cmd.String("source")
	}
	if cmd.IsSet("dest") {
		cfg.Migrate.DestRoot = cmd.String("dest")
	}
	if cmd.IsSet("locale") {
		cfg.Migrate.LocaleSubpath = cmd.String("locale")
	}
	if cmd.IsSet("date-suffix") {
		cfg.Migrate.DateSuffix = cmd.String("date-suffix")
	}

	if _, err := internal.RunMigrate(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func runFixLinks(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("content") {
		cfg.Links.ContentRoot = cmd.String("content")
	}
	if cmd.IsSet("ext") {
		cfg.Links.Extensions = cmd.StringSlice("ext")
	}
	if cmd.IsSet("watch") {
		cfg.Links.Watch = cmd.Bool("watch")
	}

	if _, err := internal.RunFixLinks(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("fix-links: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "postport",
		Usage: "Move Gatsby posts into a Hugo content tree and repair nested Markdown links",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit with status 2 when any post or file failed",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Convert every post directory of the source root",
				Action: runMigrate,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Usage:   "Gatsby posts directory",
						Sources: cli.EnvVars("POSTPORT_SOURCE"),
					},
					&cli.StringFlag{
						Name:    "dest",
						Usage:   "Hugo content root",
						Sources: cli.EnvVars("POSTPORT_DEST"),
					},
					&cli.StringFlag{
						Name:    "locale",
						Usage:   "Sub-path under the content root that receives the posts",
						Sources: cli.EnvVars("POSTPORT_LOCALE"),
					},
					&cli.StringFlag{
						Name:  "date-suffix",
						Usage: "Suffix appended to bare YYYY-MM-DD dates",
					},
				},
			},
			{
				Name:   "fix-links",
				Usage:  "Repair nested Markdown links under the content root",
				Action: runFixLinks,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "content",
						Usage:   "Content root to scan",
						Sources: cli.EnvVars("POSTPORT_CONTENT"),
					},
					&cli.StringSliceFlag{
						Name:  "ext",
						Usage: "File extension to scan (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Keep repairing files as they change",
					},
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		stop()
		if errors.Is(err, apperr.ErrIncomplete) {
			os.Exit(exitIncomplete)
		}
		os.Exit(1)
	}
}

// Package internal provides the application wiring for the postport commands.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/postport/internal/apperr"
	"github.com/starford/postport/internal/linkfix"
	"github.com/starford/postport/internal/migrate"
	"github.com/starford/postport/internal/models"
	"github.com/starford/postport/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout, logOut: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: a.config.App.LogLevel}

	var handler slog.Handler
	if a.config.App.LogFormat == LogFormatJSON {
		handler = slog.NewJSONHandler(a.logOut, handlerOpts)
	} else {
		handler = slog.NewTextHandler(a.logOut, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// RunMigrate converts every post under the configured source root into the
// destination tree and prints a summary.
func RunMigrate(ctx context.Context, opts ...Option) (models.MigrateSummary, error) {
	var summary models.MigrateSummary

	app, err := newApplication(opts)
	if err != nil {
		return summary, err
	}
	cfg := app.config.Migrate
	if err := cfg.Validate(); err != nil {
		return summary, fmt.Errorf("invalid migrate config: %w", err)
	}
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("source_root", cfg.SourceRoot),
		slog.String("dest_root", cfg.DestRoot),
		slog.String("locale_subpath", cfg.LocaleSubpath),
		slog.String("log_level", app.config.App.LogLevel.String()))

	src, err := storage.NewFS(cfg.SourceRoot)
	if err != nil {
		return summary, fmt.Errorf("init source: %w", err)
	}

	if err := os.MkdirAll(cfg.DestRoot, 0o755); err != nil {
		return summary, fmt.Errorf("create dest dir: %w", err)
	}
	dst, err := storage.NewFS(cfg.DestRoot)
	if err != nil {
		return summary, fmt.Errorf("init dest: %w", err)
	}

	m := migrate.New(src, dst, migrate.Options{
		LocaleSubpath: cfg.LocaleSubpath,
		DateSuffix:    cfg.DateSuffix,
	}, logger)

	summary, err = m.Run(ctx)
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(app.out, "Migrated %d posts, failed %d\n", summary.Succeeded, summary.Failed)
	printFailures(app.out, summary.Failures)

	return summary, app.strictErr(summary.Failed)
}

// RunFixLinks repairs nested links in every Markdown file under the content
// root. With links.watch set it keeps watching until ctx is cancelled.
func RunFixLinks(ctx context.Context, opts ...Option) (models.LinkSummary, error) {
	var summary models.LinkSummary

	app, err := newApplication(opts)
	if err != nil {
		return summary, err
	}
	cfg := app.config.Links
	if err := cfg.Validate(); err != nil {
		return summary, fmt.Errorf("invalid links config: %w", err)
	}
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("content_root", cfg.ContentRoot),
		slog.Any("extensions", cfg.Extensions),
		slog.Bool("watch", cfg.Watch))

	store, err := storage.NewFS(cfg.ContentRoot)
	if err != nil {
		return summary, fmt.Errorf("init storage: %w", err)
	}

	fixer := linkfix.NewFixer(store, cfg.Extensions, logger)
	summary, err = fixer.Run(ctx)
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(app.out, "Processed %d files, fixed %d files\n", summary.Scanned, summary.Fixed)
	for _, p := range summary.FixedPaths {
		fmt.Fprintf(app.out, "  fixed  %s\n", p)
	}
	printFailures(app.out, summary.Failures)

	if cfg.Watch {
		if err := fixer.Watch(ctx, func(path string, fixed bool) {
			if fixed {
				fmt.Fprintf(app.out, "  fixed  %s\n", path)
			}
		}); err != nil {
			return summary, fmt.Errorf("watch: %w", err)
		}
	}

	return summary, app.strictErr(summary.Failed)
}

func (a *application) strictErr(failed int) error {
	if a.config.App.Strict && failed > 0 {
		return fmt.Errorf("%d item(s) failed: %w", failed, apperr.ErrIncomplete)
	}
	return nil
}

func printFailures(w io.Writer, failures []models.Failure) {
	for _, f := range failures {
		fmt.Fprintf(w, "  failed %s: %v\n", f.Item, f.Err)
	}
}

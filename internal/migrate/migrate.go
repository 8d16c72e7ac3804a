// Package migrate moves Gatsby post directories into a Hugo content tree,
// rewriting each post's front matter and copying its assets alongside.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/postport/internal/apperr"
	"github.com/starford/postport/internal/frontmatter"
	"github.com/starford/postport/internal/models"
	"github.com/starford/postport/internal/storage"
)

// IndexFile is the post document name in both layouts.
const IndexFile = "index.md"

// Options configures a Migrator.
type Options struct {
	// LocaleSubpath is the directory under the destination root that
	// receives the posts, e.g. "ko/posts". Empty places them at the root.
	LocaleSubpath string
	// DateSuffix completes bare dates; empty uses frontmatter.DefaultDateSuffix.
	DateSuffix string
}

// Migrator converts every post directory of src into dst.
type Migrator struct {
	src    storage.Provider
	dst    storage.Provider
	opts   Options
	logger *slog.Logger
}

// New creates a Migrator reading posts from src and writing them to dst.
func New(src, dst storage.Provider, opts Options, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{src: src, dst: dst, opts: opts, logger: logger}
}

// Run migrates every sub-directory of the source root in name order. A
// post that fails is logged and counted; it never stops the batch. Only a
// failure to list the source root or to create the destination base, or
// a cancelled ctx, returns an error.
func (m *Migrator) Run(ctx context.Context) (models.MigrateSummary, error) {
	var summary models.MigrateSummary

	if err := m.dst.MkdirAll(m.opts.LocaleSubpath); err != nil {
		return summary, fmt.Errorf("migrate: %w", err)
	}

	entries, err := m.src.ReadDir("")
	if err != nil {
		return summary, fmt.Errorf("migrate: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		name := e.Name()
		m.logger.Debug("processing post", slog.String("post", name))

		res, err := m.MigratePost(name)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, models.Failure{Item: name, Err: err})
			m.logger.Warn("post skipped", slog.String("post", name), slog.String("error", err.Error()))
			continue
		}
		summary.Succeeded++
		m.logger.Info("post migrated",
			slog.String("post", name),
			slog.String("title", res.Title),
			slog.String("dest", res.Dir),
			slog.Int("assets", len(res.Assets)))
	}

	return summary, nil
}

// Result describes one migrated post.
type Result struct {
	Title  string
	Dir    string   // destination directory, relative to the destination root
	Assets []string // copied sibling file names
}

// MigratePost converts the post directory dir (relative to the source
// root). Nothing is written unless the post has a title and its rendered
// front matter verifies. The index document is written after the assets.
func (m *Migrator) MigratePost(dir string) (*Result, error) {
	data, err := m.src.Read(filepath.Join(dir, IndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNoIndex
		}
		return nil, err
	}

	doc := frontmatter.Parse(string(data))

	title, _ := doc.Fields.Get("title")
	if title == "" {
		return nil, apperr.ErrNoTitle
	}

	key, ok := doc.Fields.Get("slug")
	if !ok {
		key = title
	}
	key = frontmatter.Normalize(key)
	if key == "" {
		return nil, apperr.ErrEmptySlug
	}

	composed := frontmatter.Compose(doc, frontmatter.RenderOptions{DateSuffix: m.opts.DateSuffix})
	if err := frontmatter.Verify(composed, title, doc.Fields.Tags); err != nil {
		return nil, err
	}

	destDir := filepath.Join(m.opts.LocaleSubpath, key)
	if err := m.dst.MkdirAll(destDir); err != nil {
		return nil, err
	}

	// The index goes last so a failed copy never leaves a complete-looking
	// post; assets copied before the failure stay behind.
	assets, err := m.copyAssets(dir, destDir)
	if err != nil {
		return nil, err
	}
	if err := m.dst.Write(filepath.Join(destDir, IndexFile), []byte(composed)); err != nil {
		return nil, err
	}

	return &Result{Title: title, Dir: destDir, Assets: assets}, nil
}

// copyAssets copies every regular file next to the index document.
// Sub-directories are not descended into; symlinks are followed.
func (m *Migrator) copyAssets(srcDir, destDir string) ([]string, error) {
	entries, err := m.src.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}

	var copied []string
	for _, e := range entries {
		name := e.Name()
		if name == IndexFile {
			continue
		}
		srcAbs, err := m.src.Abs(filepath.Join(srcDir, name))
		if err != nil {
			return copied, err
		}
		info, err := os.Stat(srcAbs)
		if errors.Is(err, fs.ErrNotExist) {
			// Dangling symlink.
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("migrate: stat %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := m.dst.Import(srcAbs, filepath.Join(destDir, name)); err != nil {
			return copied, err
		}
		m.logger.Debug("asset copied", slog.String("post", srcDir), slog.String("file", name))
		copied = append(copied, name)
	}
	return copied, nil
}

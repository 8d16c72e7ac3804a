package linkfix

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/postport/internal/checksum"
	"github.com/starford/postport/internal/models"
	"github.com/starford/postport/internal/storage"
)

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".md"}

// Fixer applies Repair to every Markdown file of a content tree.
type Fixer struct {
	store  storage.Provider
	exts   []string
	logger *slog.Logger
}

// NewFixer creates a Fixer over store. An empty exts falls back to DefaultExtensions.
func NewFixer(store storage.Provider, exts []string, logger *slog.Logger) *Fixer {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fixer{store: store, exts: exts, logger: logger}
}

// Run scans the whole tree once in lexical order. A file that cannot be
// read or written is counted as failed and the scan goes on.
func (f *Fixer) Run(ctx context.Context) (models.LinkSummary, error) {
	var summary models.LinkSummary

	entries, err := f.store.List("", f.exts...)
	if err != nil {
		return summary, fmt.Errorf("linkfix: %w", err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++

		var changed bool
		err := e.Err
		if err == nil {
			changed, err = f.FixFile(e.Path)
		}
		switch {
		case err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, models.Failure{Item: e.Path, Err: err})
			f.logger.Warn("file failed", slog.String("path", e.Path), slog.String("error", err.Error()))
		case changed:
			summary.Fixed++
			summary.FixedPaths = append(summary.FixedPaths, e.Path)
		}
	}

	return summary, nil
}

// Matches reports whether path has one of the scanned extensions.
func (f *Fixer) Matches(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range f.exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// FixFile repairs a single file and reports whether it was rewritten. The
// file is written back only when its checksum changes, so untouched files
// keep their timestamps.
func (f *Fixer) FixFile(path string) (bool, error) {
	data, err := f.store.Read(path)
	if err != nil {
		return false, err
	}

	fixed := Repair(string(data))
	if checksum.SumString(fixed) == checksum.Sum(data) {
		return false, nil
	}

	if err := f.store.Write(path, []byte(fixed)); err != nil {
		return false, err
	}
	f.logger.Info("links fixed", slog.String("path", path))
	return true, nil
}

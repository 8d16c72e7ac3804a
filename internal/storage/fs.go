package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/postport/internal/models"
)

const (
	defaultFileMode = 0o644
	tmpPattern      = ".postport-tmp-*"
)

var _ Provider = (*FS)(nil)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the content root
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory.
func (f *FS) Root() string {
	return f.root
}

// Abs resolves a relative path against the root and rejects any result
// that escapes it (directory traversal).
func (f *FS) Abs(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// List walks dir in lexical order and returns every file whose extension
// matches one of exts (case-insensitive). With no exts every file is
// listed. Entries below dir that cannot be walked are returned with Err set
// instead of stopping the walk; file contents are not read.
func (f *FS) List(dir string, exts ...string) ([]models.FileEntry, error) {
	base, err := f.Abs(dir)
	if err != nil {
		return nil, err
	}
	var out []models.FileEntry
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == base {
				return walkErr
			}
			if d == nil || d.IsDir() || hasExt(d.Name(), exts) {
				rel, _ := filepath.Rel(f.root, p)
				out = append(out, models.FileEntry{Path: rel, Err: walkErr})
			}
			return nil
		}
		if d.IsDir() || !hasExt(d.Name(), exts) {
			return nil
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, models.FileEntry{Path: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// ReadDir returns the entries of dir sorted by file name.
func (f *FS) ReadDir(dir string) ([]fs.DirEntry, error) {
	abs, err := f.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read dir %s: %w", dir, err)
	}
	return entries, nil
}

// Read returns the raw bytes of a file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename. An existing
// file keeps its permission bits; a new one is created 0644.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.Abs(path)
	if err != nil {
		return err
	}
	mode := fs.FileMode(defaultFileMode)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return f.replace(abs, mode, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

// Import copies the file at srcAbs into path byte-for-byte. Permission
// bits and the modification time of the source are carried over.
func (f *FS) Import(srcAbs, path string) error {
	abs, err := f.Abs(path)
	if err != nil {
		return err
	}
	src, err := os.Open(srcAbs)
	if err != nil {
		return fmt.Errorf("storage: open %s: %w", srcAbs, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("storage: stat %s: %w", srcAbs, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("storage: not a regular file: %s", srcAbs)
	}

	if err := f.replace(abs, info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	}); err != nil {
		return err
	}
	// Zero atime leaves the access time untouched.
	if err := os.Chtimes(abs, time.Time{}, info.ModTime()); err != nil {
		return fmt.Errorf("storage: chtimes %s: %w", path, err)
	}
	return nil
}

// MkdirAll creates dir and any missing parents. An existing directory is not an error.
func (f *FS) MkdirAll(dir string) error {
	abs, err := f.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	return nil
}

// replace writes through fill into a temp file next to abs and renames it
// into place once it is synced.
func (f *FS) replace(abs string, mode fs.FileMode, fill func(io.Writer) error) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := fill(tmp); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

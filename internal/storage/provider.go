// Package storage defines the content-tree file-system abstraction.
package storage

import (
	"io/fs"

	"github.com/starford/postport/internal/models"
)

// Provider is the interface for operations on a rooted content tree.
// Every path is relative to the root.
type Provider interface {
	// Root returns the absolute root directory.
	Root() string
	// Abs resolves path against the root, rejecting escapes.
	Abs(path string) (string, error)
	// List returns every file under dir whose extension is in exts. Only a
	// failure to read dir itself is an error.
	List(dir string, exts ...string) ([]models.FileEntry, error)
	// ReadDir returns the entries of dir, sorted by name.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, keeping the mode of an existing file.
	Write(path string, content []byte) error
	// Import copies the file at srcAbs to path, preserving mode and modification time.
	Import(srcAbs, path string) error
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
}

// Package storage stores uploaded files. The local backend writes to a
// shared directory under store-generated unique filenames, so concurrent
// uploads never collide; an optional S3-compatible client mirrors files
// to a bucket when configured.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes uploads to a directory on disk. Files are served back
// under the /uploads/ path prefix.
type Local struct {
	dir string
}

// NewLocal creates the uploads directory if needed and returns the backend.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the backing directory path.
func (l *Local) Dir() string {
	return l.dir
}

// Filename generates a unique stored name preserving the original extension.
func Filename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}

// Save writes data under the given stored filename.
func (l *Local) Save(filename string, data []byte) error {
	if err := os.WriteFile(filepath.Join(l.dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write upload %s: %w", filename, err)
	}
	return nil
}

// Remove deletes a stored file. Missing files are not an error.
func (l *Local) Remove(filename string) error {
	err := os.Remove(filepath.Join(l.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload %s: %w", filename, err)
	}
	return nil
}

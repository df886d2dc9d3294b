// Package file stores each collection as <dir>/<collection>.json.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"alcyxob/group-fitness/internal/repository"
)

// Backend is a directory of JSON files, one per collection.
type Backend struct {
	dir string
}

var _ repository.Backend = (*Backend)(nil)

// New creates the directory if needed and returns a backend rooted there.
func New(dir string) (*Backend, error) {
	if dir == "" {
		return nil, errors.New("file backend requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Backend{dir: dir}, nil
}

func (b *Backend) path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

// Load reads the collection file. A missing file means an empty collection.
func (b *Backend) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save writes to a temp file in the same directory and renames it over
// the collection file, so readers never observe a partial write.
func (b *Backend) Save(ctx context.Context, collection string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, collection+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, b.path(collection)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

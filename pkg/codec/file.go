package codec

import (
	"os"
	"path/filepath"

	"github.com/aretw0/harbor/pkg/collection"
	"github.com/aretw0/harbor/pkg/domain"
)

// SaveFile writes c to path atomically.
// The text goes to a temporary file in the same directory, is synced, and is then renamed over path.
func SaveFile(path string, c *collection.Collection) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return &domain.IOError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmp.Write(data); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &domain.IOError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &domain.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// LoadFile replaces the contents of c with the collection stored at path.
// c is left untouched on any error.
func LoadFile(path string, c *collection.Collection) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	fresh, err := load(f, c.Width(), c.Height(), path)
	if err != nil {
		return err
	}
	c.Replace(fresh)
	return nil
}

// Package file provides a SnapshotStore backed by plain collection files on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/harbor/pkg/domain"
)

// Ext is the extension of every snapshot file.
const Ext = ".harbor"

// Store implements ports.SnapshotStore using the local filesystem.
// Each snapshot is a codec text file named <key>.harbor in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".harbor/snapshots".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".harbor", "snapshots")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("snapshot key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || !filepath.IsLocal(key) {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(s.BasePath, key+Ext), nil
}

// Save persists the snapshot atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	destPath, err := s.path(key)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return &domain.IOError{Op: "mkdir", Path: s.BasePath, Err: err}
	}

	// 1. Create Temp File
	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+key+"-*"+Ext+".part")
	if err != nil {
		return &domain.IOError{Op: "create", Path: destPath, Err: err}
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // gone already when the rename succeeded
	}()

	// 2. Write Data
	if _, err := tmpFile.Write(data); err != nil {
		return &domain.IOError{Op: "write", Path: tmpPath, Err: err}
	}

	// 3. Fsync to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return &domain.IOError{Op: "sync", Path: tmpPath, Err: err}
	}

	// 4. Close File (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return &domain.IOError{Op: "close", Path: tmpPath, Err: err}
	}

	// 5. Atomic Rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return &domain.IOError{Op: "rename", Path: destPath, Err: err}
	}

	return nil
}

// Load reads the snapshot file.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, &domain.IOError{Op: "read", Path: filePath, Err: err}
	}
	return data, nil
}

// Delete removes the snapshot file.
func (s *Store) Delete(ctx context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return &domain.IOError{Op: "delete", Path: filePath, Err: err}
	}
	return nil
}

// List returns all snapshot keys in the base directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, &domain.IOError{Op: "list", Path: s.BasePath, Err: err}
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != Ext {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, Ext))
	}
	slices.Sort(keys)
	return keys, nil
}

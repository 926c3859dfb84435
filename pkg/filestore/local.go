// Package filestore keeps downloaded recordings on local disk.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrOutsideRoot = errors.New("path is outside the recordings directory")

// Store is the file-storage collaborator used by the download and storage
// policy engines.
type Store interface {
	PathFor(filename string) string
	SaveBytes(filename string, data []byte) (string, error)
	DeleteLocal(path string) error
	PathExists(path string) bool
	FileSize(path string) (int64, error)
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve recordings dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) PathFor(filename string) string {
	return filepath.Join(s.root, filepath.Base(filename))
}

// SaveBytes writes through a temp file and renames it into place, so a
// crashed transfer never leaves a partial recording at the final path.
func (s *LocalStore) SaveBytes(filename string, data []byte) (string, error) {
	target := s.PathFor(filename)

	tmp, err := os.CreateTemp(s.root, ".partial-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move %s into place: %w", filename, err)
	}
	return target, nil
}

// DeleteLocal removes a file under the root. A file that is already gone is
// not an error.
func (s *LocalStore) DeleteLocal(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}

	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *LocalStore) PathExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *LocalStore) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// DefaultExtensions lists the file extensions recognised as descriptions.
var DefaultExtensions = []string{".fsm", ".txt", ".yaml", ".yml", ".json"}

// Store implements ports.DescriptionStore over a flat directory.
// Description names are file names relative to BasePath.
type Store struct {
	BasePath   string
	Extensions []string
}

// New creates a new Store rooted at basePath.
// If basePath is empty, it defaults to the current directory.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "."
	}
	return &Store{
		BasePath:   basePath,
		Extensions: DefaultExtensions,
	}
}

func (s *Store) path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("invalid description name %q", name)
	}
	return filepath.Join(s.BasePath, name), nil
}

func (s *Store) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GetDescription reads the description file called name.
func (s *Store) GetDescription(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDescriptionNotFound, name)
		}
		return nil, fmt.Errorf("failed to read description file: %w", err)
	}
	return data, nil
}

// ListDescriptions returns the names of description files in the directory.
func (s *Store) ListDescriptions(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list descriptions: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && s.accepts(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// SaveDescription writes data to the description file atomically.
// It writes to a temporary file first, syncs it, and then renames it over the destination.
func (s *Store) SaveDescription(_ context.Context, name string, data []byte) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure description directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", name, err)
	}
	return nil
}

// DeleteDescription removes the description file.
func (s *Store) DeleteDescription(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete description file: %w", err)
	}
	return nil
}

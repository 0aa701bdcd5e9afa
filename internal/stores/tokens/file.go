package tokens

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"gopkg.in/yaml.v3"
)

// FileStore persists the token pair as a small YAML document
type FileStore struct {
	path string
}

// NewFileStore creates a file backend at path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the token file
func (s *FileStore) Load(ctx context.Context) (*tokens.Pair, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tokens.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var pair tokens.Pair
	if err := yaml.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &pair, nil
}

// Save writes the pair to a temporary file in the same directory and renames
// it over the old one, so a reader sees either the old or the new record.
func (s *FileStore) Save(ctx context.Context, pair tokens.Pair) error {
	data, err := yaml.Marshal(&pair)
	if err != nil {
		return fmt.Errorf("failed to encode token pair: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to save tokens: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to save tokens: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to save tokens: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to save tokens: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("unable to replace token file: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/drivebox/apiserver/types"
)

const dataFileMode = 0o644

// FileBackend persists the account collection as a single JSON array
// file. Every save rewrites the whole file.
type FileBackend struct {
	path string
}

// NewFileBackend constructs a backend for the given file path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// LoadAll reads and decodes the backing file. A missing file yields an
// empty collection; any other failure is an I/O error.
func (b *FileBackend) LoadAll(_ context.Context) ([]types.Account, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []types.Account{}, nil
		}
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var accounts []types.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts file: %w", err)
	}
	return accounts, nil
}

// SaveAll encodes the collection and replaces the backing file. The
// payload is written to a sibling temp file and renamed into place so
// readers never observe a partial write.
func (b *FileBackend) SaveAll(_ context.Context, accounts []types.Account) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, dataFileMode); err != nil {
		return fmt.Errorf("write accounts file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	return nil
}

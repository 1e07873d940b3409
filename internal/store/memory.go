package store

import (
	"context"
	"sync"

	"github.com/drivebox/apiserver/types"
)

// MemoryBackend keeps the account collection in process memory.
// It exists so tests and tools can run without touching the disk.
type MemoryBackend struct {
	mu       sync.RWMutex
	accounts []types.Account
}

// NewMemoryBackend constructs an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{accounts: []types.Account{}}
}

func (b *MemoryBackend) LoadAll(_ context.Context) ([]types.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]types.Account, len(b.accounts))
	copy(out, b.accounts)
	return out, nil
}

func (b *MemoryBackend) SaveAll(_ context.Context, accounts []types.Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.accounts = make([]types.Account, len(accounts))
	copy(b.accounts, accounts)
	return nil
}

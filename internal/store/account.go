package store

import (
	"context"
	"strings"
	"sync"

	"github.com/drivebox/apiserver/types"
)

// AccountRepository handles persistence for accounts on top of a
// Backend. Every mutation is a full load-mutate-save cycle over the
// collection; the mutex is held across the whole cycle so overlapping
// mutations cannot lose each other's writes.
type AccountRepository struct {
	mu      sync.Mutex
	backend Backend
}

func NewAccountRepository(backend Backend) *AccountRepository {
	return &AccountRepository{backend: backend}
}

// ProfilePatch carries the profile fields a caller may change. Nil
// fields are left untouched; Settings is replaced wholesale.
type ProfilePatch struct {
	Username *string
	Email    *string
	Settings *types.Settings
}

// LoadAll returns a copy of the full account collection.
func (r *AccountRepository) LoadAll(ctx context.Context) ([]types.Account, error) {
	return r.backend.LoadAll(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (types.Account, error) {
	accounts, err := r.backend.LoadAll(ctx)
	if err != nil {
		return types.Account{}, err
	}
	if idx := indexByID(accounts, id); idx >= 0 {
		return accounts[idx], nil
	}
	return types.Account{}, ErrNotFound
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	accounts, err := r.backend.LoadAll(ctx)
	if err != nil {
		return types.Account{}, err
	}
	for _, account := range accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return types.Account{}, ErrNotFound
}

// FindByEmailOrUsername returns the first account matching either
// field. It backs the duplicate check at registration.
func (r *AccountRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (types.Account, error) {
	accounts, err := r.backend.LoadAll(ctx)
	if err != nil {
		return types.Account{}, err
	}
	if idx := indexByEmailOrUsername(accounts, email, username, ""); idx >= 0 {
		return accounts[idx], nil
	}
	return types.Account{}, ErrNotFound
}

// Create appends the account to the collection. It fails with
// ErrDuplicate when the email or username is already taken.
func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.backend.LoadAll(ctx)
	if err != nil {
		return types.Account{}, err
	}
	if indexByEmailOrUsername(accounts, account.Email, account.Username, "") >= 0 {
		return types.Account{}, ErrDuplicate
	}

	accounts = append(accounts, account)
	if err := r.backend.SaveAll(ctx, accounts); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// UpdateProfile applies the patch to the account with the given id.
// A username or email that collides with another account is rejected
// with ErrDuplicate.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.backend.LoadAll(ctx)
	if err != nil {
		return types.Account{}, err
	}
	idx := indexByID(accounts, id)
	if idx < 0 {
		return types.Account{}, ErrNotFound
	}

	email := accounts[idx].Email
	username := accounts[idx].Username
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	if indexByEmailOrUsername(accounts, email, username, id) >= 0 {
		return types.Account{}, ErrDuplicate
	}

	ApplyProfilePatch(&accounts[idx], patch)
	if err := r.backend.SaveAll(ctx, accounts); err != nil {
		return types.Account{}, err
	}
	return accounts[idx], nil
}

// AddStorage increments the account's storage counter by delta bytes.
// The stored value is unchanged when the increment would exceed the
// account's limit.
func (r *AccountRepository) AddStorage(ctx context.Context, id string, delta int64) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.backend.LoadAll(ctx)
	if err != nil {
		return types.Account{}, err
	}
	idx := indexByID(accounts, id)
	if idx < 0 {
		return types.Account{}, ErrNotFound
	}

	if err := IncrementStorage(&accounts[idx], delta); err != nil {
		return types.Account{}, err
	}
	if err := r.backend.SaveAll(ctx, accounts); err != nil {
		return types.Account{}, err
	}
	return accounts[idx], nil
}

// ApplyProfilePatch copies the allowed profile fields from the patch
// onto the account. Only username, email, and settings are writable
// through this path; everything else on the account stays as is.
func ApplyProfilePatch(account *types.Account, patch ProfilePatch) {
	if patch.Username != nil {
		account.Username = *patch.Username
	}
	if patch.Email != nil {
		account.Email = *patch.Email
	}
	if patch.Settings != nil {
		account.Settings = *patch.Settings
	}
}

// IncrementStorage adds delta bytes to the account's usage counter.
// It fails with ErrQuotaExceeded when the result would pass the limit
// and rejects non-positive deltas, keeping 0 <= storageUsed invariant.
func IncrementStorage(account *types.Account, delta int64) error {
	if delta <= 0 {
		return ErrInvalidDelta
	}
	// compare against the remaining headroom; summing used+delta
	// could wrap negative for very large deltas
	if delta > account.StorageLimit-account.StorageUsed {
		return ErrQuotaExceeded
	}
	account.StorageUsed += delta
	return nil
}

func indexByID(accounts []types.Account, id string) int {
	for i, account := range accounts {
		if account.ID == id {
			return i
		}
	}
	return -1
}

// indexByEmailOrUsername matches either field, skipping the account
// with excludeID so an account can keep its own values on update.
func indexByEmailOrUsername(accounts []types.Account, email, username, excludeID string) int {
	for i, account := range accounts {
		if excludeID != "" && account.ID == excludeID {
			continue
		}
		if strings.EqualFold(account.Email, email) || strings.EqualFold(account.Username, username) {
			return i
		}
	}
	return -1
}

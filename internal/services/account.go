package services

import (
	"context"
	"errors"
	"time"

	"github.com/drivebox/apiserver/internal/auth"
	"github.com/drivebox/apiserver/internal/store"
	"github.com/drivebox/apiserver/types"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for both an unknown email and a
// wrong password, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	UpdateProfile(ctx context.Context, id string, patch store.ProfilePatch) (types.Account, error)
	AddStorage(ctx context.Context, id string, delta int64) (types.Account, error)
}

// AccountService encapsulates account use-cases.
type AccountService struct {
	repo AccountRepository
}

func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// Register creates a new account with a hashed password and default
// quota. Duplicate email or username fails with store.ErrDuplicate.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (types.Account, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return types.Account{}, err
	}

	account := types.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Password:     hash,
		StorageUsed:  0,
		StorageLimit: types.DefaultStorageLimit,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
		Settings: types.Settings{
			AutoSync:      true,
			Notifications: true,
			Theme:         "light",
		},
	}

	return s.repo.Create(ctx, account)
}

// Authenticate verifies the email/password pair. Unknown email and
// wrong password both map to ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (types.Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, ErrInvalidCredentials
		}
		return types.Account{}, err
	}

	if !auth.VerifyPassword(password, account.Password) {
		return types.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) UpdateProfile(ctx context.Context, id string, patch store.ProfilePatch) (types.Account, error) {
	return s.repo.UpdateProfile(ctx, id, patch)
}

func (s *AccountService) AddStorage(ctx context.Context, id string, delta int64) (types.Account, error) {
	return s.repo.AddStorage(ctx, id, delta)
}

package services

import (
	"context"
	"testing"

	"github.com/drivebox/apiserver/internal/store"
	"github.com/drivebox/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccountService(t *testing.T) *AccountService {
	t.Helper()
	return NewAccountService(store.NewAccountRepository(store.NewMemoryBackend()))
}

func TestRegister(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "ana", "ana@x.com", "p1")
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "ana", account.Username)
	assert.Equal(t, "ana@x.com", account.Email)
	assert.NotEqual(t, "p1", account.Password, "stored hash must never equal the plaintext")
	assert.Equal(t, int64(0), account.StorageUsed)
	assert.Equal(t, types.DefaultStorageLimit, account.StorageLimit)
	assert.True(t, account.IsActive)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana", "ana@x.com", "p1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ana", "other@x.com", "p1")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = svc.Register(ctx, "other", "ana@x.com", "p1")
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ana", "ana@x.com", "p1")
	require.NoError(t, err)

	account, err := svc.Authenticate(ctx, "ana@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)

	// wrong password and unknown email are indistinguishable
	_, err = svc.Authenticate(ctx, "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@x.com", "p1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfilePassesPatchThrough(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ana", "ana@x.com", "p1")
	require.NoError(t, err)

	settings := types.Settings{AutoSync: false, Notifications: true, Theme: "dark"}
	updated, err := svc.UpdateProfile(ctx, registered.ID, store.ProfilePatch{Settings: &settings})
	require.NoError(t, err)
	assert.Equal(t, settings, updated.Settings)
	assert.Equal(t, registered.Password, updated.Password)
}

package types

import "time"

// DefaultStorageLimit is the storage quota granted to new accounts: 1 TiB.
const DefaultStorageLimit int64 = 1 << 40

// Settings holds per-account preferences. The whole block is replaced
// on profile update rather than merged key by key.
type Settings struct {
	// AutoSync enables automatic synchronization of the client.
	AutoSync bool `json:"autoSync"`

	// Notifications enables e-mail/push notifications.
	Notifications bool `json:"notifications"`

	// Theme is the UI theme name (e.g., "light", "dark").
	Theme string `json:"theme"`
}

// Account represents a registered account in the system.
// It is the schema of the records persisted in the backing JSON file.
type Account struct {
	// ID is the unique identifier of the account, assigned at creation.
	ID string `json:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username"`

	// Email is the account's email address, unique across accounts.
	Email string `json:"email"`

	// Password stores the bcrypt hash of the account password.
	// It is written to the backing file but never exposed in API
	// responses; responses use the Profile view instead.
	Password string `json:"password"`

	// StorageUsed is the number of bytes the account currently consumes.
	StorageUsed int64 `json:"storageUsed"`

	// StorageLimit is the quota ceiling StorageUsed may not exceed.
	StorageLimit int64 `json:"storageLimit"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`

	// IsActive flags the account as active. No business rule reads it.
	IsActive bool `json:"isActive"`

	// Settings holds the account's preferences.
	Settings Settings `json:"settings"`
}

// Profile is the sanitized view of an Account returned by the API.
// It carries every Account field except the password hash.
type Profile struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	StorageUsed  int64     `json:"storageUsed"`
	StorageLimit int64     `json:"storageLimit"`
	CreatedAt    time.Time `json:"createdAt"`
	IsActive     bool      `json:"isActive"`
	Settings     Settings  `json:"settings"`
}

// Profile returns the sanitized view of the account.
func (a Account) Profile() Profile {
	return Profile{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		StorageUsed:  a.StorageUsed,
		StorageLimit: a.StorageLimit,
		CreatedAt:    a.CreatedAt,
		IsActive:     a.IsActive,
		Settings:     a.Settings,
	}
}

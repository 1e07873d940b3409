package store

import (
	"context"

	"github.com/drivebox/apiserver/types"
)

// Backend defines load/save operations over the account collection.
// Implementations persist the collection as a whole; there is no
// incremental or indexed persistence.
type Backend interface {
	// LoadAll reads the full account collection. A backend whose
	// backing resource does not exist yet returns an empty slice,
	// not an error.
	LoadAll(ctx context.Context) ([]types.Account, error)

	// SaveAll replaces the full account collection.
	SaveAll(ctx context.Context, accounts []types.Account) error
}

package repository

import "context"

// LikeStore is the persistence contract for the like ledger. Symbols reach
// the store already uppercased and are treated as opaque keys.
type LikeStore interface {
	// RegisterLikeAndCount creates the record for symbol if absent, adds
	// liker to its set unless already present (or liker is empty, meaning no
	// like was requested), and returns the resulting set size. The whole
	// create-add-count must execute as one atomic operation at the storage
	// layer so concurrent likes of the same symbol cannot lose updates.
	RegisterLikeAndCount(ctx context.Context, symbol, liker string) (int, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

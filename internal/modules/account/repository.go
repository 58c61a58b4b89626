package account

import "context"

// Repository defines the interface for account data storage.
type Repository interface {
	// InsertIfAbsent atomically stores acc under key unless the key is taken,
	// in which case it returns ErrConflict and stores nothing.
	InsertIfAbsent(ctx context.Context, key Key, acc *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByKey(ctx context.Context, key Key) (*Account, error)
}

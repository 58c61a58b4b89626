package account

import (
	"context"
	"time"
)

// Service defines the interface for account registration business logic.
type Service interface {
	CreateUser(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error)
	CreateBusiness(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error)
	GetAccount(ctx context.Context, id string) (*RegistrationResult, error)
}

// Events is notified about accounts after they have been durably created.
type Events interface {
	AccountCreated(ctx context.Context, acc *Account) error
}

// DefaultStorageTimeout bounds a storage call when Config leaves it unset.
const DefaultStorageTimeout = 5 * time.Second

// Config holds the registration policy.
type Config struct {
	MinPasswordLength int
	StorageTimeout    time.Duration
	Namespaces        NamespaceMode
}

package auth

import (
	"context"
	"errors"

	"github.com/georgemunganga/printa-accounts/internal/modules/account"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, kind account.Kind, email, password string) (string, error)
	ParseToken(token string) (*Claims, error)
}

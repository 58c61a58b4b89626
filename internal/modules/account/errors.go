package account

import (
	"context"
	"errors"
)

// ErrorKind is the stable machine-readable category of a registration failure.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "INVALID_INPUT"
	KindDuplicateAccount   ErrorKind = "DUPLICATE_ACCOUNT"
	KindStorageUnavailable ErrorKind = "STORAGE_UNAVAILABLE"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindInternal           ErrorKind = "INTERNAL"
)

var (
	// ErrInvalidInput is returned when the email is malformed or the credential fails policy.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateAccount is returned when the email is already bound to an account.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrStorageUnavailable is returned when the store cannot complete the call in time.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("account not found")

	// ErrConflict is what a Repository returns when the key is already taken.
	ErrConflict = errors.New("key conflict")
)

// KindOf classifies err into one of the stable error kinds.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrDuplicateAccount), errors.Is(err, ErrConflict):
		return KindDuplicateAccount
	case errors.Is(err, ErrStorageUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return KindStorageUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

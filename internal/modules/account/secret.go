package account

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// SecretDeriver turns a plaintext credential into a one-way secret and checks
// plaintexts against it.
type SecretDeriver interface {
	Derive(plaintext string) (string, error)
	Verify(secret, plaintext string) bool
}

// BcryptDeriver derives secrets with bcrypt.
type BcryptDeriver struct {
	Cost int
}

// NewBcryptDeriver returns a deriver using the given cost, or bcrypt.DefaultCost when cost is out of range.
func NewBcryptDeriver(cost int) *BcryptDeriver {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptDeriver{Cost: cost}
}

func (d *BcryptDeriver) Derive(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), d.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInvalidInput
		}
		return "", err
	}
	return string(hashed), nil
}

func (d *BcryptDeriver) Verify(secret, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(plaintext)) == nil
}

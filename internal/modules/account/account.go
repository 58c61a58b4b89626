package account

import (
	"time"

	"github.com/samber/lo"
)

// Kind distinguishes the two kinds of registrable accounts.
type Kind string

const (
	KindUser     Kind = "USER"
	KindBusiness Kind = "BUSINESS"
)

// Role is one of the closed set of role tags an account can hold.
type Role string

const (
	RoleUser     Role = "user"
	RoleBusiness Role = "business"
)

// DefaultRoles returns the role set assigned to a new account of the given kind.
func DefaultRoles(kind Kind) []Role {
	switch kind {
	case KindBusiness:
		return []Role{RoleBusiness}
	default:
		return []Role{RoleUser}
	}
}

// Account represents a registered identity.
// @Description Account information
// @Description with id, kind, email, phone, address, image_url, roles and business_id
type Account struct {
	ID         string    `json:"user_id"`
	Kind       Kind      `json:"kind"`
	Namespace  string    `json:"-"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	ImageURL   string    `json:"image_url"`
	SecretHash string    `json:"-"`
	Roles      []Role    `json:"roles"`
	BusinessID string    `json:"business_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegistrationRequest is the payload for creating a user or a business.
type RegistrationRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Password string `json:"password" validate:"required"`
}

// RegistrationResult is what a successful registration returns.
// It never carries the credential or its derived secret.
type RegistrationResult struct {
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	ImageURL   string   `json:"image_url"`
	Roles      []string `json:"roles"`
	UserID     string   `json:"user_id"`
	BusinessID string   `json:"business_id,omitempty"`
}

// Result projects an account into its public registration result.
func (a *Account) Result() *RegistrationResult {
	roles := lo.Map(a.Roles, func(r Role, _ int) string { return string(r) })
	return &RegistrationResult{
		Email:      a.Email,
		Phone:      a.Phone,
		Address:    a.Address,
		ImageURL:   a.ImageURL,
		Roles:      roles,
		UserID:     a.ID,
		BusinessID: a.BusinessID,
	}
}

// Key is the natural key an account is unique under.
type Key struct {
	Namespace string
	Email     string
}

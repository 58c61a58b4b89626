package account

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRequestEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "x@y.com", valid: true},
		{email: " A@B.COM ", valid: true},
		{email: "first.last+tag@example.co.uk", valid: true},
		{email: "not-an-email", valid: false},
		{email: "@example.com", valid: false},
		{email: "x@", valid: false},
		{email: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			req := RegistrationRequest{Email: tt.email, Password: "secret123"}
			err := validateRequest(&req, 8)
			if tt.valid {
				require.NoError(t, err)
				require.Equal(t, NormalizeEmail(tt.email), req.Email)
				return
			}
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidateRequestReportsJSONFieldNames(t *testing.T) {
	requireT := require.New(t)

	err := validateRequest(&RegistrationRequest{Email: "x@y.com", Password: "secret123", ImageURL: "nope"}, 8)
	requireT.ErrorIs(err, ErrInvalidInput)
	requireT.Contains(err.Error(), "image_url is not valid")

	err = validateRequest(&RegistrationRequest{Email: "x@y.com"}, 8)
	requireT.Contains(err.Error(), "password is required")
}

func TestNamespaceMode(t *testing.T) {
	requireT := require.New(t)

	mode, err := ParseNamespaceMode("")
	requireT.NoError(err)
	requireT.Equal(NamespaceGlobal, mode)
	requireT.Equal(mode.Namespace(KindUser), mode.Namespace(KindBusiness))

	mode, err = ParseNamespaceMode("PER_KIND")
	requireT.NoError(err)
	requireT.Equal("user", mode.Namespace(KindUser))
	requireT.Equal("business", mode.Namespace(KindBusiness))

	_, err = ParseNamespaceMode("tenant")
	requireT.Error(err)
}

func TestValidateRequestCountsPasswordCharacters(t *testing.T) {
	requireT := require.New(t)

	// 4 characters, 8 bytes.
	err := validateRequest(&RegistrationRequest{Email: "x@y.com", Password: "éééé"}, 5)
	requireT.ErrorIs(err, ErrInvalidInput)
	requireT.Contains(err.Error(), "at least 5 characters")

	requireT.NoError(validateRequest(&RegistrationRequest{Email: "x@y.com", Password: "ééééé"}, 5))
}

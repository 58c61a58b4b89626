package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/georgemunganga/printa-accounts/internal/modules/account"
)

// Claims are the JWT claims issued on login.
type Claims struct {
	Kind  string   `json:"kind"`
	Roles []string `json:"roles"`
	jwt.StandardClaims
}

type service struct {
	repo       account.Repository
	secrets    account.SecretDeriver
	namespaces account.NamespaceMode
	jwtKey     []byte
	ttl        time.Duration
	timeout    time.Duration
}

// NewService creates a new auth service.
// storageTimeout bounds every account lookup and defaults to account.DefaultStorageTimeout.
func NewService(repo account.Repository, secrets account.SecretDeriver, namespaces account.NamespaceMode, jwtKey []byte, ttl, storageTimeout time.Duration) Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if storageTimeout <= 0 {
		storageTimeout = account.DefaultStorageTimeout
	}
	return &service{repo: repo, secrets: secrets, namespaces: namespaces, jwtKey: jwtKey, ttl: ttl, timeout: storageTimeout}
}

func (s *service) Login(ctx context.Context, kind account.Kind, email, password string) (string, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	acc, err := s.repo.GetByKey(storeCtx, account.Key{
		Namespace: s.namespaces.Namespace(kind),
		Email:     account.NormalizeEmail(email),
	})
	if errors.Is(err, account.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", account.ErrStorageUnavailable, err)
	}

	if !s.secrets.Verify(acc.SecretHash, password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Kind:  string(acc.Kind),
		Roles: acc.Result().Roles,
		StandardClaims: jwt.StandardClaims{
			Subject:   acc.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

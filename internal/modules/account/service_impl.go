package account

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/georgemunganga/printa-accounts/internal/modules/account")

type service struct {
	repo    Repository
	ids     IDGenerator
	secrets SecretDeriver
	events  Events
	cfg     Config
	log     *zap.Logger
}

// NewService creates a new account registration service.
func NewService(repo Repository, ids IDGenerator, secrets SecretDeriver, events Events, cfg Config, log *zap.Logger) Service {
	if events == nil {
		events = nopEvents{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = DefaultStorageTimeout
	}
	if cfg.Namespaces == "" {
		cfg.Namespaces = NamespaceGlobal
	}
	return &service{repo: repo, ids: ids, secrets: secrets, events: events, cfg: cfg, log: log}
}

func (s *service) CreateUser(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	return s.create(ctx, KindUser, req)
}

func (s *service) CreateBusiness(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	return s.create(ctx, KindBusiness, req)
}

func (s *service) create(ctx context.Context, kind Kind, req RegistrationRequest) (*RegistrationResult, error) {
	ctx, span := tracer.Start(ctx, "account.create", trace.WithAttributes(attribute.String("account.kind", string(kind))))
	defer span.End()

	if err := validateRequest(&req, s.cfg.MinPasswordLength); err != nil {
		return nil, fail(span, err)
	}

	secret, err := s.secrets.Derive(req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, fail(span, fmt.Errorf("%w: password is not acceptable", ErrInvalidInput))
		}
		return nil, fail(span, fmt.Errorf("derive secret: %w", err))
	}

	acc := &Account{
		ID:         s.ids.NewID(),
		Kind:       kind,
		Namespace:  s.cfg.Namespaces.Namespace(kind),
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		ImageURL:   req.ImageURL,
		SecretHash: secret,
		Roles:      DefaultRoles(kind),
	}
	if kind == KindBusiness {
		acc.BusinessID = s.ids.NewID()
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	created, err := s.repo.InsertIfAbsent(storeCtx, Key{Namespace: acc.Namespace, Email: acc.Email}, acc)
	switch {
	case errors.Is(err, ErrConflict):
		return nil, fail(span, fmt.Errorf("%w: email is already registered", ErrDuplicateAccount))
	case err != nil:
		return nil, fail(span, fmt.Errorf("%w: %v", ErrStorageUnavailable, err))
	}

	span.SetAttributes(attribute.String("account.id", created.ID))
	s.log.Info("Account created",
		zap.String("id", created.ID),
		zap.String("kind", string(created.Kind)),
		zap.String("namespace", created.Namespace))

	if err := s.events.AccountCreated(ctx, created); err != nil {
		s.log.Warn("Publishing account.created failed", zap.String("id", created.ID), zap.Error(err))
	}

	return created.Result(), nil
}

func (s *service) GetAccount(ctx context.Context, id string) (*RegistrationResult, error) {
	ctx, span := tracer.Start(ctx, "account.get")
	defer span.End()

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	acc, err := s.repo.GetByID(storeCtx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, fail(span, err)
	case err != nil:
		return nil, fail(span, fmt.Errorf("%w: %v", ErrStorageUnavailable, err))
	}
	return acc.Result(), nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(KindOf(err)))
	return err
}

type nopEvents struct{}

func (nopEvents) AccountCreated(context.Context, *Account) error { return nil }

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id            UUID PRIMARY KEY,
		kind          TEXT NOT NULL,
		namespace     TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		image_url     TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		roles         TEXT[] NOT NULL,
		business_id   UUID UNIQUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT accounts_namespace_email_key UNIQUE (namespace, email)
	)
`

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL account repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the accounts table when it does not exist yet.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// InsertIfAbsent relies on the (namespace, email) unique constraint, so two
// concurrent inserts for the same key can never both succeed.
func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, key Key, acc *Account) (*Account, error) {
	query := `
		INSERT INTO accounts (id, kind, namespace, email, phone, address, image_url, password_hash, roles, business_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (namespace, email) DO NOTHING
		RETURNING created_at
	`
	created := *acc
	created.Namespace = key.Namespace
	created.Email = key.Email

	err := r.db.QueryRowContext(ctx, query,
		created.ID,
		created.Kind,
		created.Namespace,
		created.Email,
		created.Phone,
		created.Address,
		created.ImageURL,
		created.SecretHash,
		pq.Array(rolesToStrings(created.Roles)),
		nullableID(created.BusinessID),
	).Scan(&created.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConflict
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("insert account: %w", ErrConflict)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	query := `
		SELECT id, kind, namespace, email, phone, address, image_url, password_hash, roles, business_id, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, parsedID))
}

func (r *PostgresRepository) GetByKey(ctx context.Context, key Key) (*Account, error) {
	query := `
		SELECT id, kind, namespace, email, phone, address, image_url, password_hash, roles, business_id, created_at
		FROM accounts
		WHERE namespace = $1 AND email = $2
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, key.Namespace, key.Email))
}

func (r *PostgresRepository) scanAccount(row *sql.Row) (*Account, error) {
	acc := &Account{}
	var roles []string
	var businessID sql.NullString
	err := row.Scan(
		&acc.ID,
		&acc.Kind,
		&acc.Namespace,
		&acc.Email,
		&acc.Phone,
		&acc.Address,
		&acc.ImageURL,
		&acc.SecretHash,
		pq.Array(&roles),
		&businessID,
		&acc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	acc.Roles = stringsToRoles(roles)
	if businessID.Valid {
		acc.BusinessID = businessID.String
	}
	return acc, nil
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

func rolesToStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func stringsToRoles(ss []string) []Role {
	out := make([]Role, 0, len(ss))
	for _, s := range ss {
		out = append(out, Role(s))
	}
	return out
}

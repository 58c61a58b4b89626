package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{
	"id", "kind", "namespace", "email", "phone", "address", "image_url",
	"password_hash", "roles", "business_id", "created_at",
}

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepositoryMigrate(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS accounts`).WillReturnResult(sqlmock.NewResult(0, 0))

	requireT.NoError(repo.Migrate(context.Background()))
	requireT.NoError(mock.ExpectationsWereMet())
}

func TestPostgresRepositoryInsertIfAbsent(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	acc := &Account{
		ID:         "0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1",
		Kind:       KindBusiness,
		Phone:      "555",
		SecretHash: "hash",
		Roles:      []Role{RoleBusiness},
		BusinessID: "5a0b7e8e-1f52-4d4e-9a53-2b7a3c1d9e10",
	}

	mock.ExpectQuery(`INSERT INTO accounts .* ON CONFLICT \(namespace, email\) DO NOTHING`).
		WithArgs(acc.ID, KindBusiness, "account", "x@y.com", "555", "", "", "hash",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	created, err := repo.InsertIfAbsent(context.Background(), Key{Namespace: "account", Email: "x@y.com"}, acc)
	requireT.NoError(err)
	requireT.Equal(createdAt, created.CreatedAt)
	requireT.Equal("x@y.com", created.Email)
	requireT.Equal("account", created.Namespace)
	requireT.NoError(mock.ExpectationsWereMet())
}

func TestPostgresRepositoryInsertConflict(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	_, err := repo.InsertIfAbsent(context.Background(), Key{Namespace: "account", Email: "x@y.com"},
		&Account{ID: "0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1", Roles: []Role{RoleUser}})
	requireT.ErrorIs(err, ErrConflict)
	requireT.NoError(mock.ExpectationsWereMet())
}

func TestPostgresRepositoryInsertUniqueViolation(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "accounts_pkey"})

	_, err := repo.InsertIfAbsent(context.Background(), Key{Namespace: "account", Email: "x@y.com"},
		&Account{ID: "0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1", Roles: []Role{RoleUser}})
	requireT.ErrorIs(err, ErrConflict)
}

func TestPostgresRepositoryInsertFailure(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(errors.New("connection reset"))

	_, err := repo.InsertIfAbsent(context.Background(), Key{Namespace: "account", Email: "x@y.com"},
		&Account{ID: "0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1", Roles: []Role{RoleUser}})
	requireT.Error(err)
	requireT.NotErrorIs(err, ErrConflict)
}

func TestPostgresRepositoryGetByKey(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM accounts\s+WHERE namespace = \$1 AND email = \$2`).
		WithArgs("account", "x@y.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(
			"0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1", "BUSINESS", "account", "x@y.com", "555", "1 Main St",
			"http://i/1.png", "hash", "{business}", "5a0b7e8e-1f52-4d4e-9a53-2b7a3c1d9e10", createdAt))

	acc, err := repo.GetByKey(context.Background(), Key{Namespace: "account", Email: "x@y.com"})
	requireT.NoError(err)
	requireT.Equal(&Account{
		ID:         "0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1",
		Kind:       KindBusiness,
		Namespace:  "account",
		Email:      "x@y.com",
		Phone:      "555",
		Address:    "1 Main St",
		ImageURL:   "http://i/1.png",
		SecretHash: "hash",
		Roles:      []Role{RoleBusiness},
		BusinessID: "5a0b7e8e-1f52-4d4e-9a53-2b7a3c1d9e10",
		CreatedAt:  createdAt,
	}, acc)
	requireT.NoError(mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	requireT := require.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .* FROM accounts\s+WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByID(context.Background(), "0b0f2f3c-54a8-4f86-a3a5-7d3cf3a8cbb1")
	requireT.ErrorIs(err, ErrNotFound)
	requireT.NoError(mock.ExpectationsWereMet())

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	requireT.ErrorIs(err, ErrNotFound)
}

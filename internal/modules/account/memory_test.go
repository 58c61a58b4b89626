package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryInsertIfAbsent(t *testing.T) {
	requireT := require.New(t)
	repo, err := NewMemoryRepository()
	requireT.NoError(err)
	ctx := context.Background()

	key := Key{Namespace: "account", Email: "x@y.com"}
	acc := &Account{ID: "id-1", Kind: KindUser, SecretHash: "hash", Roles: []Role{RoleUser}}

	created, err := repo.InsertIfAbsent(ctx, key, acc)
	requireT.NoError(err)
	requireT.Equal("account", created.Namespace)
	requireT.Equal("x@y.com", created.Email)
	requireT.False(created.CreatedAt.IsZero())

	_, err = repo.InsertIfAbsent(ctx, key, &Account{ID: "id-2", Kind: KindBusiness, Roles: []Role{RoleBusiness}})
	requireT.ErrorIs(err, ErrConflict)

	_, err = repo.InsertIfAbsent(ctx, Key{Namespace: "account", Email: "other@y.com"}, &Account{ID: "id-1"})
	requireT.ErrorIs(err, ErrConflict)

	byKey, err := repo.GetByKey(ctx, key)
	requireT.NoError(err)
	requireT.Equal(created, byKey)

	byID, err := repo.GetByID(ctx, "id-1")
	requireT.NoError(err)
	requireT.Equal(created, byID)

	requireT.Equal(1, repo.Len())
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	requireT := require.New(t)
	repo, err := NewMemoryRepository()
	requireT.NoError(err)
	ctx := context.Background()

	acc := &Account{ID: "id-1", Roles: []Role{RoleUser}}
	created, err := repo.InsertIfAbsent(ctx, Key{Namespace: "account", Email: "x@y.com"}, acc)
	requireT.NoError(err)

	acc.Roles[0] = "admin"
	created.Roles[0] = "admin"
	created.Phone = "changed"

	stored, err := repo.GetByID(ctx, "id-1")
	requireT.NoError(err)
	requireT.Equal([]Role{RoleUser}, stored.Roles)
	requireT.Empty(stored.Phone)
}

func TestMemoryRepositoryNotFound(t *testing.T) {
	requireT := require.New(t)
	repo, err := NewMemoryRepository()
	requireT.NoError(err)

	_, err = repo.GetByID(context.Background(), "missing")
	requireT.ErrorIs(err, ErrNotFound)
	_, err = repo.GetByKey(context.Background(), Key{Namespace: "account", Email: "missing@y.com"})
	requireT.ErrorIs(err, ErrNotFound)
}

func TestMemoryRepositoryHonorsCanceledContext(t *testing.T) {
	requireT := require.New(t)
	repo, err := NewMemoryRepository()
	requireT.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.InsertIfAbsent(ctx, Key{Namespace: "account", Email: "x@y.com"}, &Account{ID: "id-1"})
	requireT.ErrorIs(err, context.Canceled)
	requireT.Equal(0, repo.Len())
}

func TestMemoryRepositoryCanceledContextDoesNotWaitForWriter(t *testing.T) {
	requireT := require.New(t)
	repo, err := NewMemoryRepository()
	requireT.NoError(err)

	writer := repo.db.Txn(true)
	defer writer.Abort()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := repo.InsertIfAbsent(ctx, Key{Namespace: "account", Email: "x@y.com"}, &Account{ID: "id-1"})
		done <- err
	}()

	select {
	case err := <-done:
		requireT.ErrorIs(err, context.Canceled)
	case <-time.After(5 * time.Second):
		requireT.Fail("insert waited for the writer lock")
	}
}

package account

import (
	"context"
	"time"

	"github.com/hashicorp/go-memdb"
)

const (
	accountsTable = "accounts"
	indexID       = "id"
	indexKey      = "key"
)

type memoryRecord struct {
	ID        string
	Namespace string
	Email     string
	Account   Account
}

var memorySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		accountsTable: {
			Name: accountsTable,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				indexKey: {
					Name:   indexKey,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Namespace"},
							&memdb.StringFieldIndex{Field: "Email"},
						},
					},
				},
			},
		},
	},
}

// MemoryRepository keeps accounts in an in-memory transactional database.
// Write transactions are serialized, which makes lookup-then-insert atomic.
type MemoryRepository struct {
	db  *memdb.MemDB
	now func() time.Time
}

// NewMemoryRepository creates an empty in-memory account repository.
func NewMemoryRepository() (*MemoryRepository, error) {
	db, err := memdb.NewMemDB(memorySchema)
	if err != nil {
		return nil, err
	}
	return &MemoryRepository{db: db, now: time.Now}, nil
}

func (r *MemoryRepository) InsertIfAbsent(ctx context.Context, key Key, acc *Account) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx := r.db.Txn(true)
	defer tx.Abort()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	existing, err := tx.First(accountsTable, indexKey, key.Namespace, key.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}
	existing, err = tx.First(accountsTable, indexID, acc.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	created := *acc
	created.Namespace = key.Namespace
	created.Email = key.Email
	created.Roles = append([]Role(nil), acc.Roles...)
	created.CreatedAt = r.now().UTC()

	if err := tx.Insert(accountsTable, &memoryRecord{
		ID:        created.ID,
		Namespace: created.Namespace,
		Email:     created.Email,
		Account:   created,
	}); err != nil {
		return nil, err
	}
	tx.Commit()

	return cloneAccount(created), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.first(ctx, indexID, id)
}

func (r *MemoryRepository) GetByKey(ctx context.Context, key Key) (*Account, error) {
	return r.first(ctx, indexKey, key.Namespace, key.Email)
}

// Len returns the number of stored accounts.
func (r *MemoryRepository) Len() int {
	tx := r.db.Txn(false)
	defer tx.Abort()

	it, err := tx.Get(accountsTable, indexID)
	if err != nil {
		return 0
	}
	var n int
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}

func (r *MemoryRepository) first(ctx context.Context, index string, args ...any) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx := r.db.Txn(false)
	defer tx.Abort()

	obj, err := tx.First(accountsTable, index, args...)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNotFound
	}
	return cloneAccount(obj.(*memoryRecord).Account), nil
}

func cloneAccount(acc Account) *Account {
	acc.Roles = append([]Role(nil), acc.Roles...)
	return &acc
}

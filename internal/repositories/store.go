package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Tx gives access to repositories bound to one database session.
type Tx interface {
	Books() BookRepository
	Carts() CartRepository
	Orders() OrderRepository
	Outbox() OutboxRepository
}

// UnitOfWork runs fn inside a transaction. fn's repositories share the
// transaction; returning an error rolls everything back.
type UnitOfWork interface {
	Tx
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// GormStore is the GORM implementation of UnitOfWork.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Do(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Users() UserRepository { return NewGORMUserRepository(s.db) }
func (s *GormStore) Books() BookRepository { return NewGORMBookRepository(s.db) }
func (s *GormStore) Carts() CartRepository { return NewGORMCartRepository(s.db) }
func (s *GormStore) Orders() OrderRepository { return NewGORMOrderRepository(s.db) }
func (s *GormStore) Outbox() OutboxRepository { return NewGORMOutboxRepository(s.db) }

package repositories

import (
	"context"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

// LockMode selects the row lock taken on a cart when it is read inside a transaction.
type LockMode int

const (
	LockNone LockMode = iota
	// LockShared is held by item mutations; any number may hold it at once.
	LockShared
	// LockExclusive is held by checkout and excludes every other lock on the cart.
	LockExclusive
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// EnsureCart creates the user's cart unless it already exists.
	EnsureCart(ctx context.Context, userID string) error
	FindByUser(ctx context.Context, userID string, lock LockMode) (*models.Cart, error)
	// UpsertItem inserts the book into the cart or increments the existing line by quantity.
	// It fails with ErrNotFound if the book no longer exists.
	UpsertItem(ctx context.Context, cartID, bookID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	ListItems(ctx context.Context, cartID string) ([]models.CartItem, error)
	ListLines(ctx context.Context, cartID string) ([]models.CartLine, error)
	Clear(ctx context.Context, cartID string) error
}

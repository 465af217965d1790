package repositories

import (
	"context"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are insert-only: there is no update or delete.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	// GetByIDForUser behaves as not found for orders of other users.
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Order, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*models.Order, error)
	GetSummary(ctx context.Context, id string) (*models.OrderSummary, error)
	ListItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.OrderSummary, error)
}

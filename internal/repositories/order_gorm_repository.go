package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

const orderSummaryColumns = "orders.id, orders.user_id, orders.total, orders.status, orders.created_at, users.username, users.email"

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts the order and its items. Callers run it inside a transaction.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order %s: %w", order.ID, models.ErrConflict)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := db.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create items of order %s: %w", order.ID, err)
	}
	return nil
}

// GetByIDForUser returns the order only if it belongs to userID.
func (r *GORMOrderRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

// GetByIdempotencyKey returns the user's order placed with the given key.
func (r *GORMOrderRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*models.Order, error) {
	return r.first(ctx, "user_id = ? AND idempotency_key = ?", userID, key)
}

// GetSummary returns one order joined with its owner.
func (r *GORMOrderRepository) GetSummary(ctx context.Context, id string) (*models.OrderSummary, error) {
	var summaries []models.OrderSummary
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(orderSummaryColumns).
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.id = ?", id).
		Limit(1).
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return &summaries[0], nil
}

// ListItems returns the frozen lines of an order in the order checkout built them.
func (r *GORMOrderRepository) ListItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items of order %s: %w", orderID, err)
	}
	return items, nil
}

// ListByUser returns the user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, nil
}

// ListAll returns every order with its owner, newest first.
func (r *GORMOrderRepository) ListAll(ctx context.Context) ([]models.OrderSummary, error) {
	summaries := []models.OrderSummary{}
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select(orderSummaryColumns).
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return summaries, nil
}

func (r *GORMOrderRepository) first(ctx context.Context, cond string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where(cond, args...).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

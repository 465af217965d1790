package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// EnsureCart inserts an empty cart for the user, doing nothing if one exists.
func (r *GORMCartRepository) EnsureCart(ctx context.Context, userID string) error {
	cart := models.Cart{ID: uuid.New().String(), UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&cart).Error
	if err != nil {
		return fmt.Errorf("failed to ensure cart for user %s: %w", userID, err)
	}
	return nil
}

// FindByUser returns the user's cart, optionally row-locked for the rest of the transaction.
func (r *GORMCartRepository) FindByUser(ctx context.Context, userID string, lock LockMode) (*models.Cart, error) {
	q := r.db.WithContext(ctx)
	switch lock {
	case LockShared:
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	case LockExclusive:
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cart models.Cart
	if err := q.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart of user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart of user %s: %w", userID, err)
	}
	return &cart, nil
}

// UpsertItem adds quantity of the book to the cart in one statement. The
// unique (cart_id, book_id) index turns a concurrent duplicate insert into an increment.
// A book deleted in the meantime fails the foreign key and is reported as not found.
func (r *GORMCartRepository) UpsertItem(ctx context.Context, cartID, bookID string, quantity int) error {
	now := time.Now().UTC()
	item := models.CartItem{
		ID:        uuid.New().String(),
		CartID:    cartID,
		BookID:    bookID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": now,
			}),
		}).
		Create(&item).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("book %s: %w", bookID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert book %s into cart %s: %w", bookID, cartID, err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of a line of the given cart.
func (r *GORMCartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
	}
	return nil
}

// RemoveItem deletes a line of the given cart.
func (r *GORMCartRepository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
	}
	return nil
}

// ListItems returns the raw lines of a cart in insertion order.
func (r *GORMCartRepository) ListItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items of cart %s: %w", cartID, err)
	}
	return items, nil
}

// ListLines returns the lines of a cart joined with current catalog data.
func (r *GORMCartRepository) ListLines(ctx context.Context, cartID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id AS cart_item_id, books.id AS book_id, books.title, books.author, books.cover, books.price, cart_items.quantity").
		Joins("JOIN books ON books.id = cart_items.book_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lines of cart %s: %w", cartID, err)
	}
	return lines, nil
}

// Clear deletes every line of the cart. The cart row itself is kept.
func (r *GORMCartRepository) Clear(ctx context.Context, cartID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

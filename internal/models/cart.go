package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single pending basket of a user. It is created on the first
// add and emptied, never deleted, by checkout.
type Cart struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is one (book, quantity) line. A book appears at most once per cart,
// and deleting the book deletes its lines.
type CartItem struct {
	ID        string    `json:"cart_item_id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_book"`
	BookID    string    `json:"book_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_book"`
	Book      *Book     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity >= 1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with the book's current catalog data.
type CartLine struct {
	CartItemID string          `json:"cart_item_id"`
	BookID     string          `json:"book_id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	Cover      string          `json:"cover"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

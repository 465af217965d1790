package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusCreated is the only state an order has. Nothing transitions it.
const OrderStatusCreated = "created"

// Order is the immutable record of a completed checkout.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string          `json:"user_id" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_orders_user_idempotency"`
	Total          decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	Status         string          `json:"status" gorm:"type:varchar(20);not null"`
	IdempotencyKey *string         `json:"-" gorm:"type:varchar(255);uniqueIndex:idx_orders_user_idempotency"`
	CreatedAt      time.Time       `json:"created_at" gorm:"index"`
}

// OrderItem is a frozen order line. Price is the catalog price at checkout
// time; title, author and cover are display copies taken at the same moment.
// Position keeps the order of the cart lines the item was built from.
type OrderItem struct {
	ID       string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID  string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	Position int             `json:"-" gorm:"not null;default:0"`
	BookID   string          `json:"book_id" gorm:"type:varchar(36);not null"`
	Title    string          `json:"title" gorm:"type:varchar(255)"`
	Author   string          `json:"author" gorm:"type:varchar(255)"`
	Cover    string          `json:"cover" gorm:"type:varchar(512)"`
	Quantity int             `json:"quantity" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
}

// Subtotal returns quantity * price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalOf sums the subtotals of items.
func TotalOf(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderSummary is an order joined with its owner, as listed to admins.
type OrderSummary struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
}

// OrderDetail is an owner's view of one order.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// AdminOrderDetail is an admin's view of one order, including the owner.
type AdminOrderDetail struct {
	Order OrderSummary `json:"order"`
	Items []OrderItem  `json:"items"`
}

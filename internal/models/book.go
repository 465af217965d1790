package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Book is a catalog entry. Its price may change at any time; carts read
// the current price while orders keep the price they were placed at.
type Book struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string          `json:"title" gorm:"type:varchar(255);not null"`
	Author      string          `json:"author" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Cover       string          `json:"cover" gorm:"type:varchar(512)"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

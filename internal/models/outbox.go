package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicOrderCreated is published once per successful checkout.
const TopicOrderCreated = "order.created"

// OutboxEvent is an event recorded in the same transaction as the state
// change it describes and relayed to the broker afterwards.
type OutboxEvent struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID   string     `json:"event_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Topic     string     `json:"topic" gorm:"type:varchar(100);not null"`
	Key       string     `json:"key" gorm:"type:varchar(100);not null"`
	Payload   []byte     `json:"payload" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at" gorm:"index"`
}

// OrderCreatedEvent is the payload of TopicOrderCreated.
type OrderCreatedEvent struct {
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
	Items   []OrderItem     `json:"items"`
}

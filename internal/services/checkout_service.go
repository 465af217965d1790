package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/patlouis/e-commerce-bookstore/internal/metrics"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

// CheckoutResult is the outcome of a successful checkout.
type CheckoutResult struct {
	OrderID  string
	Total    decimal.Decimal
	Replayed bool // an earlier order with the same idempotency key was returned
}

// CheckoutService converts a cart into an order.
type CheckoutService struct {
	store   repositories.UnitOfWork
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewCheckoutService creates a new CheckoutService. m may be nil.
func NewCheckoutService(store repositories.UnitOfWork, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{
		store:   store,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Checkout places an order for everything in the user's cart at current
// catalog prices and empties the cart, all in one transaction.
//
// A non-empty idempotencyKey makes retries safe: if the user already has an
// order with that key, it is returned and nothing else happens.
// Errors are ErrEmptyCart (nothing changed) or ErrInternal (rolled back, retryable).
func (s *CheckoutService) Checkout(ctx context.Context, userID, idempotencyKey string) (*CheckoutResult, error) {
	var result *CheckoutResult

	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		// Exclusive lock: no add, update, remove or second checkout of this
		// cart can run until we commit or roll back.
		cart, err := tx.Carts().FindByUser(ctx, userID, repositories.LockExclusive)
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrEmptyCart
		}
		if err != nil {
			return err
		}

		if idempotencyKey != "" {
			existing, err := tx.Orders().GetByIdempotencyKey(ctx, userID, idempotencyKey)
			if err == nil {
				result = &CheckoutResult{OrderID: existing.ID, Total: existing.Total, Replayed: true}
				return nil
			}
			if !errors.Is(err, models.ErrNotFound) {
				return err
			}
		}

		cartItems, err := tx.Carts().ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return models.ErrEmptyCart
		}

		order := &models.Order{
			ID:        uuid.New().String(),
			UserID:    userID,
			Status:    models.OrderStatusCreated,
			CreatedAt: s.now(),
		}
		if idempotencyKey != "" {
			order.IdempotencyKey = &idempotencyKey
		}

		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for i, item := range cartItems {
			book, err := tx.Books().GetByIDForShare(ctx, item.BookID)
			if err != nil {
				return fmt.Errorf("price snapshot of book %s: %w", item.BookID, err)
			}
			orderItems = append(orderItems, models.OrderItem{
				ID:       uuid.New().String(),
				OrderID:  order.ID,
				Position: i,
				BookID:   book.ID,
				Title:    book.Title,
				Author:   book.Author,
				Cover:    book.Cover,
				Quantity: item.Quantity,
				Price:    book.Price,
			})
		}
		order.Total = models.TotalOf(orderItems)

		if err := tx.Orders().Create(ctx, order, orderItems); err != nil {
			return err
		}
		if err := s.recordOrderCreated(ctx, tx, order, orderItems); err != nil {
			return err
		}
		if err := tx.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}

		result = &CheckoutResult{OrderID: order.ID, Total: order.Total}
		return nil
	})

	switch {
	case err == nil:
		if result.Replayed {
			s.metrics.ObserveCheckout(metrics.CheckoutReplayed)
		} else {
			s.metrics.ObserveCheckout(metrics.CheckoutSuccess)
			log.Printf("Order %s placed by user %s, total %s", result.OrderID, userID, result.Total)
		}
		return result, nil
	case errors.Is(err, models.ErrEmptyCart):
		s.metrics.ObserveCheckout(metrics.CheckoutEmptyCart)
		return nil, models.ErrEmptyCart
	default:
		s.metrics.ObserveCheckout(metrics.CheckoutError)
		log.Printf("Checkout failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: checkout: %w", models.ErrInternal, err)
	}
}

func (s *CheckoutService) recordOrderCreated(ctx context.Context, tx repositories.Tx, order *models.Order, items []models.OrderItem) error {
	payload, err := json.Marshal(models.OrderCreatedEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total,
		Items:   items,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order %s event: %w", order.ID, err)
	}
	return tx.Outbox().Insert(ctx, &models.OutboxEvent{
		EventID:   uuid.New().String(),
		Topic:     models.TopicOrderCreated,
		Key:       order.ID,
		Payload:   payload,
		CreatedAt: order.CreatedAt,
	})
}

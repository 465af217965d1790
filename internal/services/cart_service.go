package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

// CartService owns the mutable per-user cart.
type CartService struct {
	store repositories.UnitOfWork
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.UnitOfWork) *CartService {
	return &CartService{
		store: store,
	}
}

// GetOrCreateCart returns the user's cart, creating an empty one if needed.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart *models.Cart
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		if err := tx.Carts().EnsureCart(ctx, userID); err != nil {
			return err
		}
		var err error
		cart, err = tx.Carts().FindByUser(ctx, userID, repositories.LockNone)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity copies of the book to the user's cart. An existing
// line for the book is incremented instead of duplicated.
func (s *CartService) AddItem(ctx context.Context, userID, bookID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d: %w", quantity, models.ErrValidation)
	}

	return s.store.Do(ctx, func(tx repositories.Tx) error {
		// Holds off DeleteBook until the line is in place.
		if _, err := tx.Books().GetByIDForShare(ctx, bookID); err != nil {
			return err
		}
		if err := tx.Carts().EnsureCart(ctx, userID); err != nil {
			return err
		}
		// The shared lock keeps a concurrent checkout of this cart out until commit.
		cart, err := tx.Carts().FindByUser(ctx, userID, repositories.LockShared)
		if err != nil {
			return err
		}
		return tx.Carts().UpsertItem(ctx, cart.ID, bookID, quantity)
	})
}

// UpdateQuantity sets the quantity of a line in the user's cart.
// Zero is rejected; RemoveItem deletes lines.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d: %w", quantity, models.ErrValidation)
	}

	return s.store.Do(ctx, func(tx repositories.Tx) error {
		cart, err := tx.Carts().FindByUser(ctx, userID, repositories.LockShared)
		if err != nil {
			return err
		}
		return tx.Carts().UpdateItemQuantity(ctx, cart.ID, itemID, quantity)
	})
}

// RemoveItem deletes a line from the user's cart. Lines of other carts are not found.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	return s.store.Do(ctx, func(tx repositories.Tx) error {
		cart, err := tx.Carts().FindByUser(ctx, userID, repositories.LockShared)
		if err != nil {
			return err
		}
		return tx.Carts().RemoveItem(ctx, cart.ID, itemID)
	})
}

// ListItems returns the user's cart lines with current catalog data.
// A user without a cart has an empty cart.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]models.CartLine, error) {
	cart, err := s.store.Carts().FindByUser(ctx, userID, repositories.LockNone)
	if errors.Is(err, models.ErrNotFound) {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.store.Carts().ListLines(ctx, cart.ID)
}

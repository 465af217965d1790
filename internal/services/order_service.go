package services

import (
	"context"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

// OrderService handles reads of placed orders. Orders are created only by CheckoutService.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// GetOrder returns an order of userID with its items. Orders of other users
// are reported as not found so their existence is not revealed.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &models.OrderDetail{Order: *order, Items: items}, nil
}

// ListOrdersForUser returns the user's orders, newest first.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAllOrders returns all orders with their owners, newest first.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	return s.orderRepo.ListAll(ctx)
}

// GetOrderAdmin returns any order with its owner and items.
func (s *OrderService) GetOrderAdmin(ctx context.Context, orderID string) (*models.AdminOrderDetail, error) {
	summary, err := s.orderRepo.GetSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.ListItems(ctx, summary.ID)
	if err != nil {
		return nil, err
	}
	return &models.AdminOrderDetail{Order: *summary, Items: items}, nil
}

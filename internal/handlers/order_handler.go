package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/patlouis/e-commerce-bookstore/internal/middleware"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
)

// IdempotencyKeyHeader lets a client retry a checkout without placing a second order.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles checkout and order reads.
type OrderHandler struct {
	service         *services.OrderService
	checkoutService *services.CheckoutService
	authService     *services.AuthService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, checkoutService *services.CheckoutService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		service:         service,
		checkoutService: checkoutService,
		authService:     authService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	customer := middleware.AuthRequired(h.authService, models.RoleCustomer)
	admin := middleware.AuthRequired(h.authService, models.RoleAdmin)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", admin, h.HandleListAllOrders)
	orderRoutes.Post("/checkout", customer, h.HandleCheckout)
	orderRoutes.Get("/my", customer, h.HandleListMyOrders)
	// Registered before /:id so "admin" is not taken for an order id.
	orderRoutes.Get("/admin/:id", admin, h.HandleGetOrderAdmin)
	orderRoutes.Get("/:id", customer, h.HandleGetOrder)
}

// HandleCheckout turns the caller's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	result, err := h.checkoutService.Checkout(c.UserContext(), caller.UserID, c.Get(IdempotencyKeyHeader))
	if err != nil {
		if errors.Is(err, models.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cart is empty.",
			})
		}
		return writeError(c, err, "Checkout failed.")
	}

	return c.JSON(fiber.Map{
		"message":  "Order placed successfully.",
		"order_id": result.OrderID,
		"total":    result.Total,
	})
}

// HandleListMyOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	orders, err := h.service.ListOrdersForUser(c.UserContext(), caller.UserID)
	if err != nil {
		return writeError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{
		"orders": orders,
	})
}

// HandleGetOrder returns one of the caller's orders. Another user's order is a 404.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	detail, err := h.service.GetOrder(c.UserContext(), c.Params("id"), caller.UserID)
	if err != nil {
		return writeError(c, err, "Order not found.")
	}
	return c.JSON(detail)
}

// HandleListAllOrders lists every order with its owner. Admin only.
func (h *OrderHandler) HandleListAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders(c.UserContext())
	if err != nil {
		return writeError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{
		"orders": orders,
	})
}

// HandleGetOrderAdmin returns any order with its owner. Admin only.
func (h *OrderHandler) HandleGetOrderAdmin(c *fiber.Ctx) error {
	detail, err := h.service.GetOrderAdmin(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "Order not found.")
	}
	return c.JSON(detail)
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/patlouis/e-commerce-bookstore/internal/middleware"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service     *services.CartService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, authService *services.AuthService) *CartHandler {
	return &CartHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes. Every route needs a customer token.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	customer := middleware.AuthRequired(h.authService, models.RoleCustomer)

	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", customer, h.HandleGetCart)
	cartRoutes.Post("/add", customer, h.HandleAddItem)
	cartRoutes.Put("/:cart_item_id", customer, h.HandleUpdateItem)
	cartRoutes.Delete("/:cart_item_id", customer, h.HandleRemoveItem)
}

// AddItemRequest is the body of POST /cart/add. Quantity defaults to 1.
type AddItemRequest struct {
	BookID   string `json:"book_id" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateItemRequest is the body of PUT /cart/:cart_item_id.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	lines, err := h.service.ListItems(c.UserContext(), caller.UserID)
	if err != nil {
		return writeError(c, err, "Could not retrieve cart")
	}
	return c.JSON(fiber.Map{
		"cart": lines,
	})
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.service.AddItem(c.UserContext(), caller.UserID, req.BookID, quantity); err != nil {
		return writeError(c, err, "Could not add book to cart")
	}
	return c.JSON(fiber.Map{
		"message": "Book added to cart.",
	})
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.UpdateQuantity(c.UserContext(), caller.UserID, c.Params("cart_item_id"), req.Quantity); err != nil {
		return writeError(c, err, "Could not update cart item")
	}
	return c.JSON(fiber.Map{
		"message": "Cart updated.",
	})
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return writeError(c, err, "Invalid or expired token")
	}

	if err := h.service.RemoveItem(c.UserContext(), caller.UserID, c.Params("cart_item_id")); err != nil {
		return writeError(c, err, "Could not remove cart item")
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from cart.",
	})
}

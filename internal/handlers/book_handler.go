package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/patlouis/e-commerce-bookstore/internal/middleware"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
)

// BookHandler serves the catalog. Reads are public, writes need an admin token.
type BookHandler struct {
	service     *services.BookService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService, authService *services.AuthService) *BookHandler {
	return &BookHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	admin := middleware.AuthRequired(h.authService, models.RoleAdmin)

	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleGetBooks)
	bookRoutes.Get("/:id", h.HandleGetBook)
	bookRoutes.Post("/", admin, h.HandleCreateBook)
	bookRoutes.Put("/:id", admin, h.HandleUpdateBook)
	bookRoutes.Delete("/:id", admin, h.HandleDeleteBook)
}

// BookRequest is the body of create and update requests.
type BookRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Author      string           `json:"author" validate:"required,max=255"`
	Description string           `json:"description"`
	Cover       string           `json:"cover" validate:"max=512"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

func (r BookRequest) toBook(id string) *models.Book {
	return &models.Book{
		ID:          id,
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Cover:       r.Cover,
		Price:       *r.Price,
	}
}

func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	books, err := h.service.GetAllBooks(c.UserContext())
	if err != nil {
		return writeError(c, err, "Could not retrieve books")
	}
	return c.JSON(fiber.Map{
		"books": books,
	})
}

func (h *BookHandler) HandleGetBook(c *fiber.Ctx) error {
	book, err := h.service.GetBookByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "Book not found.")
	}
	return c.JSON(fiber.Map{
		"book": book,
	})
}

func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	book := req.toBook("")
	if err := h.service.CreateBook(c.UserContext(), book); err != nil {
		return writeError(c, err, "Could not create book")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Book created.",
		"book":    book,
	})
}

func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	ctx := c.UserContext()
	if err := h.service.UpdateBook(ctx, req.toBook(c.Params("id"))); err != nil {
		return writeError(c, err, "Could not update book")
	}
	book, err := h.service.GetBookByID(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, err, "Could not update book")
	}
	return c.JSON(fiber.Map{
		"message": "Book updated.",
		"book":    book,
	})
}

func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	if err := h.service.DeleteBook(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err, "Could not delete book")
	}
	return c.JSON(fiber.Map{
		"message": "Book deleted.",
	})
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

// BookService handles business logic related to the catalog.
type BookService struct {
	store repositories.UnitOfWork
}

// NewBookService creates a new BookService.
func NewBookService(store repositories.UnitOfWork) *BookService {
	return &BookService{
		store: store,
	}
}

// GetAllBooks retrieves all books.
func (s *BookService) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.store.Books().GetAll(ctx)
}

// GetBookByID retrieves a single book by its ID.
func (s *BookService) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	return s.store.Books().GetByID(ctx, id)
}

// CreateBook adds a book to the catalog.
func (s *BookService) CreateBook(ctx context.Context, book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	return s.store.Books().Create(ctx, book)
}

// UpdateBook changes a book. A new price applies to carts immediately and
// never to orders already placed.
func (s *BookService) UpdateBook(ctx context.Context, book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	book.UpdatedAt = time.Now().UTC()
	return s.store.Books().Update(ctx, book)
}

// DeleteBook removes a book. The database cascades the delete to every
// cart line referencing it; placed orders keep their copies.
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	return s.store.Books().Delete(ctx, id)
}

func validateBook(book *models.Book) error {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	if book.Title == "" || book.Author == "" {
		return fmt.Errorf("title and author are required: %w", models.ErrValidation)
	}
	if book.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", models.ErrValidation)
	}
	return nil
}

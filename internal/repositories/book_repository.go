package repositories

import (
	"context"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

// BookRepository defines the interface for catalog data access.
type BookRepository interface {
	GetAll(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	// GetByIDForShare reads the book under a shared row lock, so it cannot be
	// deleted before the surrounding transaction ends.
	GetByIDForShare(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id string) error
}

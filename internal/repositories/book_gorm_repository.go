package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// GetAll retrieves all books ordered by title.
func (r *GORMBookRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get all books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a single book by its ID.
func (r *GORMBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetByIDForShare retrieves a book and holds a shared lock on its row.
func (r *GORMBookRepository) GetByIDForShare(ctx context.Context, id string) (*models.Book, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}), id)
}

func (r *GORMBookRepository) get(q *gorm.DB, id string) (*models.Book, error) {
	var book models.Book
	if err := q.First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// Create creates a new book.
func (r *GORMBookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an existing book.
func (r *GORMBookRepository) Update(ctx context.Context, book *models.Book) error {
	res := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", book.ID).
		Select("title", "author", "description", "cover", "price", "updated_at").
		Updates(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", book.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a book by its ID. Cart lines referencing it go with it.
func (r *GORMBookRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", id, models.ErrNotFound)
	}
	return nil
}

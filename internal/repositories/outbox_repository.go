package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
)

// OutboxRepository stores events until they have been published.
type OutboxRepository interface {
	Insert(ctx context.Context, event *models.OutboxEvent) error
	FetchPending(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkSent(ctx context.Context, id int64) error
}

// GORMOutboxRepository is a GORM implementation of OutboxRepository.
type GORMOutboxRepository struct {
	db *gorm.DB
}

// NewGORMOutboxRepository creates a new instance of GORMOutboxRepository.
func NewGORMOutboxRepository(db *gorm.DB) *GORMOutboxRepository {
	return &GORMOutboxRepository{db: db}
}

func (r *GORMOutboxRepository) Insert(ctx context.Context, event *models.OutboxEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to insert outbox event %s: %w", event.EventID, err)
	}
	return nil
}

// FetchPending returns unsent events, oldest first.
func (r *GORMOutboxRepository) FetchPending(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	if err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending outbox events: %w", err)
	}
	return events, nil
}

func (r *GORMOutboxRepository) MarkSent(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Update("sent_at", time.Now().UTC()).Error; err != nil {
		return fmt.Errorf("failed to mark outbox event %d sent: %w", id, err)
	}
	return nil
}

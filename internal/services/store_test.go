package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/patlouis/e-commerce-bookstore/internal/database"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

// newStore returns a store over a fresh in-memory database.
func newStore(t *testing.T) (*repositories.GormStore, *gorm.DB) {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGormStore(db), db
}

func createUser(t *testing.T, store *repositories.GormStore, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func createBook(t *testing.T, store *repositories.GormStore, title, price string) *models.Book {
	t.Helper()
	book := &models.Book{Title: title, Author: "Author of " + title, Price: decimal.RequireFromString(price)}
	require.NoError(t, store.Books().Create(context.Background(), book))
	return book
}

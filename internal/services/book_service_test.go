package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
)

func TestBookService_CRUD(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	bookService := services.NewBookService(store)

	book := &models.Book{Title: "  Dune ", Author: "Frank Herbert", Price: decimal.RequireFromString("9.99")}
	require.NoError(t, bookService.CreateBook(ctx, book))
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Dune", book.Title)

	got, err := bookService.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))

	book.Description = "Spice"
	require.NoError(t, bookService.UpdateBook(ctx, book))
	got, err = bookService.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spice", got.Description)

	require.NoError(t, bookService.DeleteBook(ctx, book.ID))
	_, err = bookService.GetBookByID(ctx, book.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, bookService.DeleteBook(ctx, book.ID), models.ErrNotFound)
	assert.ErrorIs(t, bookService.UpdateBook(ctx, book), models.ErrNotFound)
}

func TestBookService_Validation(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	bookService := services.NewBookService(store)

	cases := map[string]*models.Book{
		"NoTitle":       {Title: " ", Author: "A", Price: decimal.NewFromInt(1)},
		"NoAuthor":      {Title: "T", Author: "", Price: decimal.NewFromInt(1)},
		"NegativePrice": {Title: "T", Author: "A", Price: decimal.NewFromInt(-1)},
	}
	for name, book := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, bookService.CreateBook(ctx, book), models.ErrValidation)
		})
	}

	books, err := bookService.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookService_DeleteRemovesCartLines(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	bookService := services.NewBookService(store)
	cartService := services.NewCartService(store)
	dune := createBook(t, store, "Dune", "10")
	emma := createBook(t, store, "Emma", "5")

	require.NoError(t, cartService.AddItem(ctx, "user-1", dune.ID, 1))
	require.NoError(t, cartService.AddItem(ctx, "user-1", emma.ID, 1))
	require.NoError(t, cartService.AddItem(ctx, "user-2", dune.ID, 4))

	require.NoError(t, bookService.DeleteBook(ctx, dune.ID))

	lines, err := cartService.ListItems(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, emma.ID, lines[0].BookID)

	lines, err = cartService.ListItems(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestBookService_GetAllBooksOrderedByTitle(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	bookService := services.NewBookService(store)
	createBook(t, store, "Emma", "5")
	createBook(t, store, "Dune", "10")

	books, err := bookService.GetAllBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Emma", books[1].Title)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patlouis/e-commerce-bookstore/internal/app"
	"github.com/patlouis/e-commerce-bookstore/internal/config"
	"github.com/patlouis/e-commerce-bookstore/internal/database"
	"github.com/patlouis/e-commerce-bookstore/internal/events"
	"github.com/patlouis/e-commerce-bookstore/pkg/kafka"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return app.New(config.Config{
		JWTSecret:    "test_jwt_secret",
		TokenTTL:     time.Hour,
		EventsBroker: config.BrokerNone,
	}, db)
}

func TestBuildPublisher(t *testing.T) {
	t.Run("None", func(t *testing.T) {
		publisher, closeFn, err := buildPublisher(config.Config{EventsBroker: config.BrokerNone})
		require.NoError(t, err)
		assert.Nil(t, publisher)
		assert.NoError(t, closeFn())
	})

	t.Run("Log", func(t *testing.T) {
		publisher, closeFn, err := buildPublisher(config.Config{EventsBroker: config.BrokerLog})
		require.NoError(t, err)
		assert.IsType(t, events.LogPublisher{}, publisher)
		assert.NoError(t, publisher.Publish(context.Background(), "order.created", "o-1", []byte(`{}`)))
		assert.NoError(t, closeFn())
	})

	t.Run("Kafka", func(t *testing.T) {
		publisher, closeFn, err := buildPublisher(config.Config{
			EventsBroker: config.BrokerKafka,
			KafkaBrokers: "localhost:9092",
			KafkaTopic:   "bookstore-orders",
		})
		require.NoError(t, err)
		assert.IsType(t, &kafka.Producer{}, publisher)
		assert.NoError(t, closeFn())
	})

	t.Run("KafkaWithoutBrokers", func(t *testing.T) {
		_, _, err := buildPublisher(config.Config{EventsBroker: config.BrokerKafka})
		assert.ErrorIs(t, err, kafka.ErrDisabled)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := buildPublisher(config.Config{EventsBroker: "carrier-pigeon"})
		assert.Error(t, err)
	})
}

func TestSeedBooks(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	seedBooks(ctx, a.Books)
	books, err := a.Books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)

	// Seeding a non-empty catalog is a no-op.
	seedBooks(ctx, a.Books)
	books, err = a.Books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, err = a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "bookstore_api_http_requests_total")
}

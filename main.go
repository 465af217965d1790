package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"

	"github.com/patlouis/e-commerce-bookstore/internal/app"
	"github.com/patlouis/e-commerce-bookstore/internal/config"
	"github.com/patlouis/e-commerce-bookstore/internal/database"
	"github.com/patlouis/e-commerce-bookstore/internal/events"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
	"github.com/patlouis/e-commerce-bookstore/pkg/kafka"
	"github.com/patlouis/e-commerce-bookstore/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	application := app.New(cfg, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := application.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	}
	if cfg.SeedCatalog {
		seedBooks(ctx, application.Books)
	}

	// --- Event relay ---
	publisher, closePublisher, err := buildPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer func() {
		if err := closePublisher(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}()
	relayDone := make(chan struct{})
	if publisher != nil {
		relay := events.NewRelay(application.Store.Outbox(), publisher, cfg.OutboxPollInterval, application.Metrics)
		go func() {
			defer close(relayDone)
			log.Printf("Starting outbox relay (%s, every %s)", cfg.EventsBroker, cfg.OutboxPollInterval)
			relay.Run(ctx)
		}()
	} else {
		close(relayDone)
	}

	// --- HTTP server ---
	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := application.Fiber.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	<-relayDone
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// buildPublisher returns the publisher selected by EVENTS_BROKER and a func
// releasing its connections. A nil publisher disables the relay.
func buildPublisher(cfg config.Config) (events.Publisher, func() error, error) {
	noop := func() error { return nil }

	switch cfg.EventsBroker {
	case config.BrokerNone:
		return nil, noop, nil
	case config.BrokerLog:
		return events.LogPublisher{}, noop, nil
	case config.BrokerRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			return nil, nil, err
		}
		if err := client.ConsumeOrderEvents(logOrderEvent); err != nil {
			client.Close()
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.BrokerKafka:
		producer, err := kafka.NewProducer(kafka.NewClient(cfg.KafkaBrokers), cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		return producer, producer.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported events broker %q", cfg.EventsBroker)
	}
}

func logOrderEvent(msg amqp.Delivery) error {
	log.Printf("Received %s event (tag %d): %s", msg.Type, msg.DeliveryTag, msg.Body)
	return nil
}

// seedBooks adds a starter catalog when the catalog is empty.
func seedBooks(ctx context.Context, bookService *services.BookService) {
	existing, err := bookService.GetAllBooks(ctx)
	if err != nil {
		log.Printf("Error reading catalog: %v", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	books := []models.Book{
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Price: decimal.RequireFromString("39.99")},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: decimal.RequireFromString("45.50")},
		{Title: "The Pragmatic Programmer", Author: "David Thomas", Price: decimal.RequireFromString("32.00")},
	}
	for i := range books {
		if err := bookService.CreateBook(ctx, &books[i]); err != nil {
			log.Printf("Error seeding book %s: %v", books[i].Title, err)
			continue
		}
		log.Printf("Seeded book: %s (ID: %s)", books[i].Title, books[i].ID)
	}
}

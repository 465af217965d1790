package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/patlouis/e-commerce-bookstore/internal/metrics"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

const defaultBatchSize = 100

// Relay moves outbox events to a Publisher. Events are published at least
// once and in insertion order; a failed event stays pending and the batch
// stops there so later events do not overtake it.
type Relay struct {
	outbox    repositories.OutboxRepository
	publisher Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

// NewRelay creates a relay polling every interval. m may be nil.
func NewRelay(outbox repositories.OutboxRepository, publisher Publisher, interval time.Duration, m *metrics.Metrics) *Relay {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "outbox-relay",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		breaker:   breaker,
		metrics:   m,
		interval:  interval,
		batchSize: defaultBatchSize,
	}
}

// Run polls until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Outbox relay: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Flush publishes one batch of pending events and returns how many were sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	pending, err := r.outbox.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range pending {
		_, err := r.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, r.publisher.Publish(ctx, event.Topic, event.Key, event.Payload)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return sent, fmt.Errorf("publisher unavailable, %d events pending: %w", len(pending)-sent, err)
		}
		r.metrics.ObservePublish(event.Topic, err)
		if err != nil {
			return sent, fmt.Errorf("failed to publish event %s: %w", event.EventID, err)
		}
		if err := r.outbox.MarkSent(ctx, event.ID); err != nil {
			// Published but not marked: it will be sent again.
			return sent, err
		}
		sent++
	}
	return sent, nil
}

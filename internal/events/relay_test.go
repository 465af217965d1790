package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patlouis/e-commerce-bookstore/internal/database"
	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

type published struct {
	topic, key string
}

// fakePublisher records events and fails while failing is set.
type fakePublisher struct {
	mu      sync.Mutex
	sent    []published
	failing bool
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing {
		return errors.New("broker down")
	}
	p.sent = append(p.sent, published{topic, key})
	return nil
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.sent))
	for _, s := range p.sent {
		keys = append(keys, s.key)
	}
	return keys
}

func newOutbox(t *testing.T, events int) repositories.OutboxRepository {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	outbox := repositories.NewGORMOutboxRepository(db)
	for i := 0; i < events; i++ {
		require.NoError(t, outbox.Insert(context.Background(), &models.OutboxEvent{
			EventID:   uuid.NewString(),
			Topic:     models.TopicOrderCreated,
			Key:       fmt.Sprintf("order-%d", i),
			Payload:   []byte(`{}`),
			CreatedAt: time.Now().UTC(),
		}))
	}
	return outbox
}

func TestRelay_Flush(t *testing.T) {
	ctx := context.Background()
	outbox := newOutbox(t, 3)
	publisher := &fakePublisher{}
	relay := NewRelay(outbox, publisher, time.Second, nil)

	sent, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, []string{"order-0", "order-1", "order-2"}, publisher.keys())

	// Nothing is sent twice.
	sent, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRelay_FailureKeepsEventsPending(t *testing.T) {
	ctx := context.Background()
	outbox := newOutbox(t, 2)
	publisher := &fakePublisher{failing: true}
	relay := NewRelay(outbox, publisher, time.Second, nil)

	sent, err := relay.Flush(ctx)
	assert.Error(t, err)
	assert.Zero(t, sent)

	pending, err := outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	publisher.failing = false
	sent, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"order-0", "order-1"}, publisher.keys())
}

func TestRelay_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	outbox := newOutbox(t, 1)
	publisher := &fakePublisher{failing: true}
	relay := NewRelay(outbox, publisher, time.Second, nil)

	for i := 0; i < 5; i++ {
		_, err := relay.Flush(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	// The breaker is open: the broker is not even tried.
	publisher.failing = false
	_, err := relay.Flush(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Empty(t, publisher.keys())
}

func TestRelay_RunStopsWithContext(t *testing.T) {
	outbox := newOutbox(t, 1)
	publisher := &fakePublisher{}
	relay := NewRelay(outbox, publisher, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(publisher.keys()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

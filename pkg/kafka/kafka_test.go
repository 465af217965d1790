package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c := NewClient(" broker-1:9092, ,broker-2:9092 ")
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, c.Brokers)
	assert.True(t, c.Enabled())

	assert.False(t, NewClient("").Enabled())
}

func TestNewProducer(t *testing.T) {
	_, err := NewProducer(NewClient(""), "orders")
	assert.ErrorIs(t, err, ErrDisabled)

	p, err := NewProducer(NewClient("localhost:9092"), "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", p.writer.Topic)
	require.NoError(t, p.Close())
}

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	occurred := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)

	msg, err := newPublishing(Event{
		Type:          ReservationConfirmed,
		ReservationID: 42,
		Seats:         2,
		RequestID:     "req-1",
		OccurredAt:    occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "req-1", msg.CorrelationId)
	assert.Equal(t, string(ReservationConfirmed), msg.Type)
	assert.True(t, msg.Timestamp.Equal(occurred))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, 42, decoded.ReservationID)
	assert.Equal(t, ReservationConfirmed, decoded.Type)
	assert.Equal(t, 2, decoded.Seats)
}

func TestNewPublishingStampsTime(t *testing.T) {
	msg, err := newPublishing(Event{Type: BookingCreated, ReservationID: 1})
	require.NoError(t, err)

	assert.False(t, msg.Timestamp.IsZero())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	assert.NoError(t, p.Publish(context.Background(), Event{Type: SnacksOrdered}))
	assert.NoError(t, p.Close())
}

package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/crisis-locator/internal/config"
	"github.com/couchcryptid/crisis-locator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	observed := time.Date(2024, time.August, 29, 14, 30, 0, 0, time.UTC)
	change := domain.StatusChange{
		ItemID:     "fb-7",
		Category:   domain.CategoryFoodBank,
		Name:       "Northside Pantry",
		OpenNow:    domain.StatusClosed,
		PlaceID:    "pl-7",
		Method:     domain.MethodTextSearch,
		ObservedAt: observed,
	}

	msg, err := serializeToMessage(change)
	require.NoError(t, err)

	assert.Equal(t, []byte("fb-7"), msg.Key)
	assert.JSONEq(t, `{
		"itemId": "fb-7",
		"category": "food_bank",
		"name": "Northside Pantry",
		"openNow": false,
		"placeId": "pl-7",
		"method": "textsearch",
		"observedAt": "2024-08-29T14:30:00Z"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("food_bank"), msg.Headers[0].Value)
	assert.Equal(t, "method", msg.Headers[1].Key)
	assert.Equal(t, []byte("textsearch"), msg.Headers[1].Value)
	assert.Equal(t, "observed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(observed.Format(time.RFC3339)), msg.Headers[2].Value)
}

func TestPublishStatuses_EmptyIsNoop(t *testing.T) {
	// No broker is reachable at this address; an empty batch must not dial.
	p := NewPublisher(&config.Config{
		KafkaBrokers:     []string{"127.0.0.1:1"},
		KafkaStatusTopic: "resource-status",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = p.Close() })

	assert.NoError(t, p.PublishStatuses(context.Background(), nil))
}

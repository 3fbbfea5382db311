package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeMessage(t *testing.T) {
	event, err := NewEvent("catalog.product.created", "prod-9", "product", "catalog-service", map[string]string{"name": "Desk Lamp"})
	require.NoError(t, err)
	event.CorrelationID = "corr-777"

	msg, err := envelope("catalog.product.created", event)
	require.NoError(t, err)

	assert.Equal(t, "catalog.product.created", msg.Topic)
	assert.Equal(t, []byte("prod-9"), msg.Key, "messages are keyed by aggregate ID")

	restored, err := UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, restored.EventID)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "catalog.product.created", headers["event_type"])
	assert.Equal(t, "catalog-service", headers["source"])
	assert.Equal(t, "corr-777", headers["correlation_id"])
}

func TestEnvelopeOmitsEmptyCorrelationHeader(t *testing.T) {
	event, err := NewEvent("catalog.product.deleted", "prod-1", "product", "catalog-service", nil)
	require.NoError(t, err)

	msg, err := envelope("catalog.product.deleted", event)
	require.NoError(t, err)

	for _, h := range msg.Headers {
		assert.NotEqual(t, "correlation_id", h.Key)
	}
}

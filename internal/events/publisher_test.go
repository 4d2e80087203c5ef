package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NoBrokersDisablesPublishing(t *testing.T) {
	p := NewPublisher(nil, "checkout.completed")

	assert.Nil(t, p)
	// Publishing and closing through a nil publisher must be safe no-ops.
	p.PublishCheckoutCompleted(context.Background(), CheckoutCompleted{SessionID: "s"})
	p.Close()
}

func TestCheckoutCompleted_EventShape(t *testing.T) {
	event := CheckoutCompleted{
		SessionID:   "sess-1",
		ItemCount:   3,
		Currency:    "USD",
		RedirectURL: "https://pay.example.com/tempcheckout/xyz/abc",
		CompletedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "sess-1", decoded["session_id"])
	assert.Equal(t, float64(3), decoded["item_count"])
	// No money fields on the wire, ever.
	assert.NotContains(t, decoded, "subtotal")
	assert.NotContains(t, decoded, "total_price")
}

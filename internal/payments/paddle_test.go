package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paddleSign(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + ":"))
	mac.Write(body)
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestPaddleVerifySignature(t *testing.T) {
	provider := NewPaddle("paddle-secret")
	body := []byte(`{"event_type":"transaction.completed"}`)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, provider.VerifySignature(body, paddleSign("paddle-secret", "1700000000", body)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, provider.VerifySignature(body, paddleSign("other", "1700000000", body)))
	})

	t.Run("timestamp not covered by mac", func(t *testing.T) {
		sig := paddleSign("paddle-secret", "1700000000", body)
		tampered := "ts=1700009999" + sig[len("ts=1700000000"):]
		assert.False(t, provider.VerifySignature(body, tampered))
	})

	t.Run("missing h1", func(t *testing.T) {
		assert.False(t, provider.VerifySignature(body, "ts=1700000000"))
	})

	t.Run("garbage header", func(t *testing.T) {
		assert.False(t, provider.VerifySignature(body, "totally-wrong"))
	})
}

func TestPaddleParseTransactionCompleted(t *testing.T) {
	provider := NewPaddle("secret")
	body := []byte(`{
		"event_type": "transaction.completed",
		"data": {
			"id": "txn_123",
			"customer_id": "ctm_9",
			"custom_data": {"email": "Pay@Example.com", "user_id": "u-1", "analysis_id": "a-1"}
		}
	}`)

	ev, err := provider.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "paddle", ev.Provider)
	assert.Equal(t, EventOrderCreated, ev.Type)
	assert.Equal(t, "pay@example.com", ev.Email)
	assert.Equal(t, "txn_123", ev.PaymentID)
	assert.Equal(t, "ctm_9", ev.CustomerID)
	assert.Equal(t, models.StatusActive, ev.Status)
}

func TestPaddleParseSubscriptionLifecycle(t *testing.T) {
	provider := NewPaddle("secret")

	cases := []struct {
		eventType  string
		dataStatus string
		wantType   string
		wantStatus string
	}{
		{"subscription.activated", "active", EventSubscriptionCreated, models.StatusActive},
		{"subscription.created", "trialing", EventSubscriptionCreated, models.StatusTrialing},
		{"subscription.updated", "past_due", EventSubscriptionUpdated, models.StatusPastDue},
		{"subscription.past_due", "past_due", EventSubscriptionUpdated, models.StatusPastDue},
		{"subscription.updated", "paused", EventSubscriptionUpdated, models.StatusCancelled},
		{"subscription.canceled", "canceled", EventSubscriptionCancelled, models.StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.eventType+"/"+tc.dataStatus, func(t *testing.T) {
			body := []byte(`{
				"event_type": "` + tc.eventType + `",
				"data": {
					"id": "sub_77",
					"status": "` + tc.dataStatus + `",
					"custom_data": {"email": "sub@example.com"},
					"current_billing_period": {"ends_at": "2026-09-30T12:00:00Z"}
				}
			}`)
			ev, err := provider.ParseEvent(body)
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, ev.Type)
			assert.Equal(t, tc.wantStatus, ev.Status)
			assert.Equal(t, "sub_77", ev.SubscriptionID)
			require.NotNil(t, ev.CurrentPeriodEnd)
			assert.Equal(t, time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC), ev.CurrentPeriodEnd.UTC())
		})
	}
}

func TestPaddleParseUnrecognizedEvent(t *testing.T) {
	provider := NewPaddle("secret")
	ev, err := provider.ParseEvent([]byte(`{"event_type": "address.created", "data": {"id": "add_1"}}`))
	require.NoError(t, err)
	assert.Empty(t, ev.Type)
	assert.Equal(t, "address.created", ev.RawType)
}

func TestPaddleParseMalformed(t *testing.T) {
	provider := NewPaddle("secret")

	t.Run("invalid json", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`not json`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("missing event type", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`{"data": {}}`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`{"event_type": "transaction.completed", "data": {"id": "txn_1"}}`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(NewLemonSqueezy("a"), NewPaddle("b"))

	p, ok := registry.Get("lemonsqueezy")
	require.True(t, ok)
	assert.Equal(t, "lemonsqueezy", p.Name())

	p, ok = registry.Get("paddle")
	require.True(t, ok)
	assert.Equal(t, "paddle", p.Name())

	_, ok = registry.Get("stripe")
	assert.False(t, ok)
}

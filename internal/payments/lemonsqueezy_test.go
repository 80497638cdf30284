package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lemonSign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestLemonSqueezyVerifySignature(t *testing.T) {
	provider := NewLemonSqueezy("test-secret")
	body := []byte(`{"meta":{"event_name":"order_created"}}`)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, provider.VerifySignature(body, lemonSign("test-secret", body)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, provider.VerifySignature(body, lemonSign("other-secret", body)))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := lemonSign("test-secret", body)
		assert.False(t, provider.VerifySignature([]byte(`{"meta":{}}`), sig))
	})

	t.Run("non-hex signature", func(t *testing.T) {
		assert.False(t, provider.VerifySignature(body, "not-hex-at-all"))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, provider.VerifySignature(body, ""))
	})

	t.Run("empty secret rejects everything", func(t *testing.T) {
		unconfigured := NewLemonSqueezy("")
		assert.False(t, unconfigured.VerifySignature(body, lemonSign("", body)))
	})
}

func TestLemonSqueezyParseOrderCreated(t *testing.T) {
	provider := NewLemonSqueezy("secret")
	body := []byte(`{
		"meta": {
			"event_name": "order_created",
			"custom_data": {"email": "fallback@example.com", "user_id": "u-123", "analysis_id": "a-456"}
		},
		"data": {
			"id": "order-789",
			"attributes": {"identifier": "ord_ident", "user_email": "Buyer@Example.COM", "customer_id": 42, "status": ""}
		}
	}`)

	ev, err := provider.ParseEvent(body)
	require.NoError(t, err)

	assert.Equal(t, "lemonsqueezy", ev.Provider)
	assert.Equal(t, EventOrderCreated, ev.Type)
	assert.Equal(t, "buyer@example.com", ev.Email)
	assert.Equal(t, "order-789", ev.PaymentID)
	assert.Equal(t, "ord_ident", ev.OrderIdentifier)
	assert.Equal(t, "42", ev.CustomerID)
	assert.Equal(t, "u-123", ev.UserIDHint)
	assert.Equal(t, "a-456", ev.AnalysisID)
	assert.Equal(t, models.StatusActive, ev.Status)
}

func TestLemonSqueezyParseSubscriptionEvents(t *testing.T) {
	provider := NewLemonSqueezy("secret")

	cases := []struct {
		event      string
		attrStatus string
		wantStatus string
	}{
		{"subscription_created", "active", models.StatusActive},
		{"subscription_created", "on_trial", models.StatusTrialing},
		{"subscription_updated", "past_due", models.StatusPastDue},
		{"subscription_updated", "unpaid", models.StatusPastDue},
		{"subscription_cancelled", "", models.StatusCancelled},
		{"subscription_expired", "", models.StatusCancelled},
		{"subscription_updated", "something_new", ""},
	}

	for _, tc := range cases {
		t.Run(tc.event+"/"+tc.attrStatus, func(t *testing.T) {
			body := []byte(`{
				"meta": {"event_name": "` + tc.event + `"},
				"data": {"id": "sub-1", "attributes": {"user_email": "sub@example.com", "status": "` + tc.attrStatus + `"}}
			}`)
			ev, err := provider.ParseEvent(body)
			require.NoError(t, err)
			assert.Equal(t, tc.event, ev.Type)
			assert.Equal(t, "sub-1", ev.SubscriptionID)
			assert.Empty(t, ev.PaymentID)
			assert.Equal(t, tc.wantStatus, ev.Status)
		})
	}
}

func TestLemonSqueezyParseUnrecognizedEvent(t *testing.T) {
	provider := NewLemonSqueezy("secret")
	body := []byte(`{"meta": {"event_name": "subscription_payment_success"}, "data": {"id": "x"}}`)

	ev, err := provider.ParseEvent(body)
	require.NoError(t, err)
	assert.Empty(t, ev.Type)
	assert.Equal(t, "subscription_payment_success", ev.RawType)
}

func TestLemonSqueezyParseMalformed(t *testing.T) {
	provider := NewLemonSqueezy("secret")

	t.Run("invalid json", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`{not json`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("missing event name", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`{"meta": {}, "data": {}}`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("missing email on recognized event", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`{"meta": {"event_name": "order_created"}, "data": {"id": "o-1"}}`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("order without payment identifier", func(t *testing.T) {
		_, err := provider.ParseEvent([]byte(`{"meta": {"event_name": "order_created"}, "data": {"attributes": {"user_email": "a@b.com"}}}`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})
}

func TestLemonSqueezyEmailFallback(t *testing.T) {
	provider := NewLemonSqueezy("secret")
	body := []byte(`{
		"meta": {"event_name": "order_created", "custom_data": {"email": " Custom@Example.com "}},
		"data": {"id": "o-2", "attributes": {}}
	}`)

	ev, err := provider.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "custom@example.com", ev.Email)
}

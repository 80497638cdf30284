package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
)

type lemonWebhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			Email      string `json:"email"`
			UserID     string `json:"user_id"`
			AnalysisID string `json:"analysis_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Identifier string      `json:"identifier"`
			UserEmail  string      `json:"user_email"`
			CustomerID json.Number `json:"customer_id"`
			Status     string      `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

// LemonSqueezy verifies and parses Lemon Squeezy webhooks. Signatures are
// a hex HMAC-SHA256 of the raw request body.
type LemonSqueezy struct {
	secret []byte
}

func NewLemonSqueezy(webhookSecret string) *LemonSqueezy {
	return &LemonSqueezy{secret: []byte(webhookSecret)}
}

func (l *LemonSqueezy) Name() string { return "lemonsqueezy" }

func (l *LemonSqueezy) SignatureHeader() string { return "X-Signature" }

func (l *LemonSqueezy) VerifySignature(rawBody []byte, signature string) bool {
	if len(l.secret) == 0 {
		return false
	}

	received, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, l.secret)
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	// hmac.Equal is constant-time beyond the coarse length check.
	return hmac.Equal(expected, received)
}

func (l *LemonSqueezy) ParseEvent(rawBody []byte) (*Event, error) {
	var payload lemonWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	eventName := payload.Meta.EventName
	if eventName == "" {
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedPayload)
	}

	ev := &Event{
		Provider: l.Name(),
		RawType:  eventName,
	}

	switch eventName {
	case "order_created", "order_refunded",
		"subscription_created", "subscription_updated",
		"subscription_cancelled", "subscription_expired":
		ev.Type = eventName
	default:
		// Outside the recognized set; acknowledged without side effects.
		return ev, nil
	}

	email := normalizeEmail(payload.Data.Attributes.UserEmail)
	if email == "" {
		email = normalizeEmail(payload.Meta.CustomData.Email)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: missing a valid customer email", ErrMalformedPayload)
	}
	ev.Email = email

	entityID := payload.Data.ID
	ev.OrderIdentifier = payload.Data.Attributes.Identifier
	ev.CustomerID = payload.Data.Attributes.CustomerID.String()
	ev.UserIDHint = payload.Meta.CustomData.UserID
	ev.AnalysisID = payload.Meta.CustomData.AnalysisID

	if strings.HasPrefix(eventName, "subscription_") {
		ev.SubscriptionID = entityID
	} else {
		ev.PaymentID = entityID
		if ev.PaymentID == "" {
			ev.PaymentID = ev.OrderIdentifier
		}
	}

	switch eventName {
	case "order_created":
		if ev.PaymentID == "" {
			return nil, fmt.Errorf("%w: missing payment identifier", ErrMalformedPayload)
		}
		ev.Status = models.StatusActive
	case "order_refunded", "subscription_cancelled", "subscription_expired":
		ev.Status = models.StatusCancelled
	case "subscription_created", "subscription_updated":
		ev.Status = mapLemonStatus(payload.Data.Attributes.Status)
	}

	return ev, nil
}

func mapLemonStatus(status string) string {
	switch status {
	case "active":
		return models.StatusActive
	case "on_trial":
		return models.StatusTrialing
	case "past_due", "unpaid":
		return models.StatusPastDue
	case "cancelled", "expired":
		return models.StatusCancelled
	default:
		// Unmappable provider status: the event is acknowledged, no-op.
		return ""
	}
}

func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}

package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
)

type paddleWebhookPayload struct {
	EventType string `json:"event_type"`
	Data      struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		CustomerID string `json:"customer_id"`
		CustomData struct {
			Email      string `json:"email"`
			UserID     string `json:"user_id"`
			AnalysisID string `json:"analysis_id"`
		} `json:"custom_data"`
		CurrentBillingPeriod struct {
			EndsAt string `json:"ends_at"`
		} `json:"current_billing_period"`
	} `json:"data"`
}

// Paddle verifies and parses Paddle Billing webhooks. The signature header
// has the form "ts=<unix>;h1=<hex hmac>", where the HMAC-SHA256 is computed
// over "<ts>:<raw body>".
type Paddle struct {
	secret []byte
}

func NewPaddle(webhookSecret string) *Paddle {
	return &Paddle{secret: []byte(webhookSecret)}
}

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) SignatureHeader() string { return "Paddle-Signature" }

func (p *Paddle) VerifySignature(rawBody []byte, signature string) bool {
	if len(p.secret) == 0 {
		return false
	}

	var ts, h1 string
	for _, part := range strings.Split(signature, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "h1":
			h1 = value
		}
	}
	if ts == "" || h1 == "" {
		return false
	}

	received, err := hex.DecodeString(h1)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write(rawBody)

	return hmac.Equal(mac.Sum(nil), received)
}

func (p *Paddle) ParseEvent(rawBody []byte) (*Event, error) {
	var payload paddleWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.EventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}

	ev := &Event{
		Provider: p.Name(),
		RawType:  payload.EventType,
	}

	switch payload.EventType {
	case "transaction.completed":
		ev.Type = EventOrderCreated
	case "transaction.refunded":
		ev.Type = EventOrderRefunded
	case "subscription.activated", "subscription.created":
		ev.Type = EventSubscriptionCreated
	case "subscription.updated":
		ev.Type = EventSubscriptionUpdated
	case "subscription.canceled":
		ev.Type = EventSubscriptionCancelled
	case "subscription.past_due":
		ev.Type = EventSubscriptionUpdated
	default:
		return ev, nil
	}

	email := normalizeEmail(payload.Data.CustomData.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: missing a valid customer email", ErrMalformedPayload)
	}
	ev.Email = email
	ev.CustomerID = payload.Data.CustomerID
	ev.UserIDHint = payload.Data.CustomData.UserID
	ev.AnalysisID = payload.Data.CustomData.AnalysisID

	if endsAt := payload.Data.CurrentBillingPeriod.EndsAt; endsAt != "" {
		if t, err := time.Parse(time.RFC3339, endsAt); err == nil {
			ev.CurrentPeriodEnd = &t
		}
	}

	switch ev.Type {
	case EventOrderCreated:
		ev.PaymentID = payload.Data.ID
		if ev.PaymentID == "" {
			return nil, fmt.Errorf("%w: missing payment identifier", ErrMalformedPayload)
		}
		ev.Status = models.StatusActive
	case EventOrderRefunded:
		ev.PaymentID = payload.Data.ID
		ev.Status = models.StatusCancelled
	case EventSubscriptionCancelled:
		ev.SubscriptionID = payload.Data.ID
		ev.Status = models.StatusCancelled
	default:
		ev.SubscriptionID = payload.Data.ID
		ev.Status = mapPaddleStatus(payload.Data.Status)
	}

	return ev, nil
}

func mapPaddleStatus(status string) string {
	switch status {
	case "active":
		return models.StatusActive
	case "trialing":
		return models.StatusTrialing
	case "past_due":
		return models.StatusPastDue
	case "canceled", "cancelled", "paused":
		return models.StatusCancelled
	default:
		return ""
	}
}

package payments

import "time"

// Normalized event types. Provider-specific event names are translated to
// this closed set at the adapter boundary; anything outside it surfaces as
// an event with an empty Type, which the webhook handler acknowledges
// without side effects.
const (
	EventOrderCreated          = "order_created"
	EventOrderRefunded         = "order_refunded"
	EventSubscriptionCreated   = "subscription_created"
	EventSubscriptionUpdated   = "subscription_updated"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventSubscriptionExpired   = "subscription_expired"
)

// Event is the single internal payment-event model. Each provider adapter
// translates its own webhook shape into this before the reconciler sees it,
// so provider churn never reaches core logic.
type Event struct {
	Provider string
	// RawType is the provider's own event name, echoed back in ignored
	// acknowledgements.
	RawType string
	// Type is one of the Event* constants, or "" for events outside the
	// recognized set.
	Type string
	// Status is the internal subscription status this event maps to
	// (active, cancelled, past_due, trialing), or "" when the provider
	// status is unmappable and the event should be acknowledged as a
	// no-op.
	Status string

	// Email is the normalized (lowercased, trimmed) customer email.
	Email string

	// PaymentID identifies a one-time purchase; it keys Report
	// idempotency. Set only for order events.
	PaymentID string

	SubscriptionID  string
	CustomerID      string
	OrderIdentifier string

	// CurrentPeriodEnd is the provider-reported period end, when present.
	CurrentPeriodEnd *time.Time

	// UserIDHint and AnalysisID come from checkout custom metadata and
	// drive Report materialization on order_created.
	UserIDHint string
	AnalysisID string
}

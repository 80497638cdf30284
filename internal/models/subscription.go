package models

import (
	"time"

	"github.com/google/uuid"
)

// Internal subscription statuses. Provider-specific vocabularies are
// normalized to this closed set by the payment adapters.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPastDue   = "past_due"
	StatusTrialing  = "trialing"
)

// Subscription holds the current payment state for one account email.
// At most one row per email; the webhook reconciler upserts it with
// last-writer-wins semantics.
type Subscription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Status           string     `gorm:"not null;default:'active';size:50" json:"status"`
	Provider         string     `gorm:"not null;size:50" json:"provider"`
	CustomerID       string     `gorm:"size:255;index" json:"customer_id,omitempty"`
	SubscriptionID   string     `gorm:"size:255" json:"subscription_id,omitempty"`
	OrderID          string     `gorm:"size:255" json:"order_id,omitempty"`
	OrderIdentifier  string     `gorm:"size:255" json:"order_identifier,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

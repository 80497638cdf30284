package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is the permanent ownership record for a one-time purchase. It
// freezes the analysis result at purchase time and is unique per payment
// id so webhook replays cannot duplicate it. A single analysis may carry
// more than one Report if it is paid for twice; any matching row proves
// ownership.
type Report struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	UserEmail        string         `gorm:"not null;size:255;index" json:"user_email"`
	SourceAnalysisID uuid.UUID      `gorm:"type:uuid;not null;index" json:"source_analysis_id"`
	ReportData       datatypes.JSON `gorm:"type:jsonb;not null" json:"report_data"`
	PaymentID        string         `gorm:"not null;size:255;uniqueIndex" json:"payment_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

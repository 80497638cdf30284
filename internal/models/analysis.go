package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Analysis is a stored free-tier scoring result. It is anonymous at
// creation: no account reference exists until a purchase binds one via a
// Report row. Immutable after creation.
type Analysis struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileText string         `gorm:"type:text;not null" json:"profile_text"`
	Result      datatypes.JSON `gorm:"type:jsonb;not null" json:"result"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

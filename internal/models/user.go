package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account identity. Accounts are created at signup and never
// deleted; the email is stored lowercased and trimmed.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Balance is one user's point total. A missing row reads as zero, so
// resetting a balance deletes the row rather than writing a zero.
type Balance struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

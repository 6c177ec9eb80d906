package models

import (
	"time"

	"github.com/google/uuid"
)

// ShopItem is a curated purchasable entry. Items are seeded/managed out of
// band; the purchase flow only reads them.
type ShopItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Price       int64     `gorm:"not null" json:"price"`
	Description string    `gorm:"size:500" json:"description"`
	IsNew       bool      `gorm:"default:false" json:"is_new"`
	CreatedAt   time.Time `json:"created_at"`
}

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
	PurchaseExpired   PurchaseStatus = "expired"
)

// Purchase tracks one shop transaction from confirmation prompt to
// fulfillment. Item name and price are denormalized at creation so the
// receipt survives later item edits. The debit happens only on confirm;
// pending purchases past ExpiresAt flip to expired on the next touch.
type Purchase struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ItemID    uint           `gorm:"not null" json:"item_id"`
	ItemName  string         `gorm:"size:100;not null" json:"item_name"`
	Price     int64          `gorm:"not null" json:"price"`
	Status    PurchaseStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IGN       string         `gorm:"size:32" json:"ign,omitempty"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

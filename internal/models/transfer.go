package models

import (
	"github.com/google/uuid"
	"time"
)

// Transfer is one point movement between two players during play.
// Transfers are append-only; the set of transfers for a room is its ledger.
type Transfer struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID     uuid.UUID `gorm:"not null;index"`
	FromUserID uuid.UUID `gorm:"not null"`
	ToUserID   uuid.UUID `gorm:"not null"`
	Amount     int       `gorm:"not null;check:amount > 0"`
	CreatedAt  time.Time

	// Relations
	FromUser User `gorm:"foreignKey:FromUserID"`
	ToUser   User `gorm:"foreignKey:ToUserID"`
}

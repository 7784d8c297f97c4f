package models

import (
	"github.com/google/uuid"
	"time"
)

// SettlementTransfer is one payment in the minimal plan that clears all
// debts of a settled room.
type SettlementTransfer struct {
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

package models

import (
	"github.com/google/uuid"
	"time"
)

const (
	RoomStatusOngoing = "ongoing"
	RoomStatusEnded   = "ended"
)

// RoomTypes are the scoring rule sets a room can be created with.
var RoomTypes = []string{"sichuan", "baozhongbao"}

type Room struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name    string    `gorm:"not null"`
	Type    string    `gorm:"not null;check:type IN ('sichuan','baozhongbao')"`
	Remarks string
	Status  string `gorm:"not null;default:'ongoing';index:idx_rooms_status_created,priority:1"`

	// BeginDirection is the seat wind the first round starts from.
	BeginDirection string
	CreatorID      uuid.UUID `gorm:"index"`
	CreatedAt      time.Time `gorm:"index:idx_rooms_status_created,priority:2"`
	EndedAt        *time.Time

	// Relations
	Creator      User          `gorm:"foreignKey:CreatorID"`
	Participants []Participant `gorm:"foreignKey:RoomID"`
	Transfers    []Transfer    `gorm:"foreignKey:RoomID"`
}

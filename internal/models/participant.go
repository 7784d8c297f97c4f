package models

import (
	"github.com/google/uuid"
	"time"
)

type Participant struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID uuid.UUID `gorm:"not null;uniqueIndex:idx_participants_room_user,priority:1"`
	UserID uuid.UUID `gorm:"not null;uniqueIndex:idx_participants_room_user,priority:2"`

	// Direction is the seat wind: east, south, west or north.
	// Empty when all four winds are already taken.
	Direction string
	IsReady   bool `gorm:"not null;default:false"`
	JoinedAt  time.Time

	// Relations
	User User `gorm:"foreignKey:UserID"`
	Room Room `gorm:"foreignKey:RoomID"`
}

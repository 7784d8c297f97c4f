package models

import "github.com/google/uuid"

// Result is a participant's final tally, written once when the room settles.
type Result struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID    uuid.UUID `gorm:"not null;index"`
	UserID    uuid.UUID `gorm:"not null;index"`
	TotalWin  int       `gorm:"not null"`
	TotalLose int       `gorm:"not null"`
	Net       int       `gorm:"not null"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/tilescore/internal/game"
	"github.com/thereayou/tilescore/internal/models"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoom(roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) ListOngoingRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.
		Where("status = ?", models.RoomStatusOngoing).
		Preload("Creator").
		Preload("Participants").
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

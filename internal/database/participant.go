package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/tilescore/internal/game"
	"github.com/thereayou/tilescore/internal/models"
)

func (d *Database) AddParticipant(participant *models.Participant) error {
	return d.db.Create(participant).Error
}

func (d *Database) GetParticipant(roomID, userID uuid.UUID) (*models.Participant, error) {
	var participant models.Participant
	err := d.db.First(&participant, "room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.ErrNotParticipant
		}
		return nil, err
	}
	return &participant, nil
}

// ListParticipants returns the room's participants ordered by join time.
func (d *Database) ListParticipants(roomID uuid.UUID) ([]models.Participant, error) {
	var participants []models.Participant
	err := d.db.
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Preload("User").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (d *Database) SetReady(roomID, userID uuid.UUID, ready bool) error {
	result := d.db.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("is_ready", ready)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return game.ErrNotParticipant
	}
	return nil
}

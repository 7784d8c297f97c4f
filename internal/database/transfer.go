package database

import (
	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

func (d *Database) CreateTransfer(transfer *models.Transfer) error {
	return d.db.Create(transfer).Error
}

func (d *Database) ListTransfers(roomID uuid.UUID) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := d.db.
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Preload("FromUser").
		Preload("ToUser").
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

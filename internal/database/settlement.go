package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/tilescore/internal/game"
	"github.com/thereayou/tilescore/internal/models"
)

// FinalizeRoom writes the settlement plan and flips the room to ended as
// one transaction. The status is re-checked inside the transaction: if a
// concurrent settlement already ended the room, nothing is written.
func (d *Database) FinalizeRoom(roomID uuid.UUID, plan game.Plan) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return game.ErrRoomNotFound
			}
			return err
		}
		if room.Status == models.RoomStatusEnded {
			return game.ErrRoomEnded
		}

		for i := range plan.Results {
			if err := tx.Create(&plan.Results[i]).Error; err != nil {
				return err
			}
		}
		for i := range plan.Transfers {
			if err := tx.Create(&plan.Transfers[i]).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		return tx.Model(&room).Updates(map[string]interface{}{
			"status":   models.RoomStatusEnded,
			"ended_at": now,
		}).Error
	})
}

func (d *Database) ListResults(roomID uuid.UUID) ([]models.Result, error) {
	var results []models.Result
	err := d.db.
		Where("room_id = ?", roomID).
		Preload("User").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Database) ListSettlementTransfers(roomID uuid.UUID) ([]models.SettlementTransfer, error) {
	var transfers []models.SettlementTransfer
	err := d.db.
		Where("room_id = ?", roomID).
		Preload("FromUser").
		Preload("ToUser").
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

package game

import (
	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

// Store is the persistence boundary of the game core. Implementations
// return ErrRoomNotFound / ErrNotParticipant for missing records so the
// service never has to know the backing technology.
type Store interface {
	CreateRoom(room *models.Room) error
	GetRoom(roomID uuid.UUID) (*models.Room, error)
	ListOngoingRooms() ([]models.Room, error)

	AddParticipant(participant *models.Participant) error
	GetParticipant(roomID, userID uuid.UUID) (*models.Participant, error)
	// ListParticipants returns the room's participants in join order.
	ListParticipants(roomID uuid.UUID) ([]models.Participant, error)
	SetReady(roomID, userID uuid.UUID, ready bool) error

	CreateTransfer(transfer *models.Transfer) error
	ListTransfers(roomID uuid.UUID) ([]models.Transfer, error)

	// FinalizeRoom persists the results and settlement transfers and flips
	// the room to ended in a single atomic write. It must re-check the room
	// status inside the transaction and return ErrRoomEnded if another
	// settlement already won, leaving nothing written.
	FinalizeRoom(roomID uuid.UUID, plan Plan) error
	ListResults(roomID uuid.UUID) ([]models.Result, error)
	ListSettlementTransfers(roomID uuid.UUID) ([]models.SettlementTransfer, error)
}

// Notifier carries room events out to connected clients. Delivery is
// best-effort: implementations must never block or fail the mutation
// that triggered the event.
type Notifier interface {
	TransferRecorded(roomID uuid.UUID, transfer models.Transfer)
	ReadinessChanged(roomID, userID uuid.UUID, readyCount, totalCount int)
}

package game

import (
	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

// Balances derives each participant's net position from the room ledger.
// Every participant starts at zero, then each transfer moves its amount
// from sender to receiver. The result is independent of transfer order
// and always sums to zero across the room.
func Balances(participants []models.Participant, transfers []models.Transfer) map[uuid.UUID]int {
	balances := make(map[uuid.UUID]int, len(participants))
	for _, p := range participants {
		balances[p.UserID] = 0
	}

	for _, t := range transfers {
		balances[t.FromUserID] -= t.Amount
		balances[t.ToUserID] += t.Amount
	}

	return balances
}

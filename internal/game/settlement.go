package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

// Plan is the outcome of settling a room: one result per participant and
// the minimal list of payments that realizes those results.
type Plan struct {
	Results   []models.Result
	Transfers []models.SettlementTransfer
}

type debtor struct {
	userID uuid.UUID
	owed   int
}

// BuildPlan converts final balances into results and settlement transfers.
// Participants are walked in join order so the mapping is stable: the
// earliest-joined creditor collects first, from the earliest-joined debtor.
// Greedy head-matching yields at most creditors+debtors-1 transfers and
// terminates because balances sum to zero.
func BuildPlan(roomID uuid.UUID, participants []models.Participant, transfers []models.Transfer) Plan {
	won := make(map[uuid.UUID]int, len(participants))
	lost := make(map[uuid.UUID]int, len(participants))
	for _, t := range transfers {
		won[t.ToUserID] += t.Amount
		lost[t.FromUserID] += t.Amount
	}

	plan := Plan{Results: make([]models.Result, 0, len(participants))}

	var creditors []models.Result
	var debtors []debtor
	for _, p := range participants {
		result := models.Result{
			RoomID:    roomID,
			UserID:    p.UserID,
			TotalWin:  won[p.UserID],
			TotalLose: lost[p.UserID],
			Net:       won[p.UserID] - lost[p.UserID],
		}
		plan.Results = append(plan.Results, result)

		if result.Net > 0 {
			creditors = append(creditors, result)
		} else if result.Net < 0 {
			debtors = append(debtors, debtor{userID: p.UserID, owed: -result.Net})
		}
	}

	now := time.Now()
	for _, creditor := range creditors {
		receivable := creditor.Net
		for receivable > 0 && len(debtors) > 0 {
			head := &debtors[0]

			amount := head.owed
			if receivable < amount {
				amount = receivable
			}

			plan.Transfers = append(plan.Transfers, models.SettlementTransfer{
				RoomID:     roomID,
				FromUserID: head.userID,
				ToUserID:   creditor.UserID,
				Amount:     amount,
				CreatedAt:  now,
			})

			head.owed -= amount
			receivable -= amount
			if head.owed == 0 {
				debtors = debtors[1:]
			}
		}
	}

	return plan
}

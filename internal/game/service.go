package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

// Service is the room state machine: it owns joins, the ledger, ready
// votes and the one-time settlement that ends a room.
type Service struct {
	store    Store
	notifier Notifier
	locks    *roomLocks

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a Service. rng may be nil, in which case seat winds
// are picked from a time-seeded source; tests inject a fixed seed.
func NewService(store Store, notifier Notifier, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:    store,
		notifier: notifier,
		locks:    newRoomLocks(),
		rng:      rng,
	}
}

// ReadyStatus is the vote count returned from ToggleReady.
type ReadyStatus struct {
	ReadyCount int
	TotalCount int
}

// RoomView is the full live state of a room for display.
type RoomView struct {
	Room         models.Room
	Participants []models.Participant
	Transfers    []models.Transfer
	Balances     map[uuid.UUID]int
	ReadyCount   int
	TotalCount   int
}

// RoomResult holds the final tallies of an ended room.
type RoomResult struct {
	Results   []models.Result
	Transfers []models.SettlementTransfer
}

// RoomSummary is one entry of the ongoing rooms list.
type RoomSummary struct {
	ID          uuid.UUID
	Name        string
	Type        string
	CreatorID   uuid.UUID
	CreatorName string
	PlayerCount int
	CanJoin     bool
	CreatedAt   time.Time
}

func (s *Service) pickDirection(taken []string) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return PickDirection(taken, s.rng)
}

func validRoomType(roomType string) bool {
	for _, t := range models.RoomTypes {
		if t == roomType {
			return true
		}
	}
	return false
}

// CreateRoom opens a new ongoing room and seats the creator in it.
func (s *Service) CreateRoom(name, roomType, remarks string, creatorID uuid.UUID) (*models.Room, error) {
	if !validRoomType(roomType) {
		return nil, ErrInvalidRoomType
	}

	room := &models.Room{
		Name:           name,
		Type:           roomType,
		Remarks:        remarks,
		Status:         models.RoomStatusOngoing,
		BeginDirection: s.pickDirection(nil),
		CreatorID:      creatorID,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateRoom(room); err != nil {
		return nil, err
	}

	creator := &models.Participant{
		RoomID:    room.ID,
		UserID:    creatorID,
		Direction: s.pickDirection(nil),
		JoinedAt:  time.Now(),
	}
	if err := s.store.AddParticipant(creator); err != nil {
		return nil, err
	}

	return room, nil
}

// JoinRoom adds a user to an ongoing room, assigning a free seat wind.
// A user may join a given room at most once; ended rooms reject joins.
func (s *Service) JoinRoom(roomID, userID uuid.UUID) (*models.Participant, error) {
	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status == models.RoomStatusEnded {
		return nil, ErrRoomEnded
	}

	if _, err := s.store.GetParticipant(roomID, userID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, ErrNotParticipant) {
		return nil, err
	}

	participants, err := s.store.ListParticipants(roomID)
	if err != nil {
		return nil, err
	}
	taken := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.Direction != "" {
			taken = append(taken, p.Direction)
		}
	}

	participant := &models.Participant{
		RoomID:    roomID,
		UserID:    userID,
		Direction: s.pickDirection(taken),
		JoinedAt:  time.Now(),
	}
	if err := s.store.AddParticipant(participant); err != nil {
		return nil, err
	}

	return participant, nil
}

// RecordTransfer appends a point transfer to the room ledger. The transfer
// is durably written before the broadcast goes out, so a client re-fetching
// state after the event always sees it.
func (s *Service) RecordTransfer(roomID, fromUserID, toUserID uuid.UUID, amount int) (*models.Transfer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status == models.RoomStatusEnded {
		return nil, ErrRoomEnded
	}

	for _, userID := range []uuid.UUID{fromUserID, toUserID} {
		if _, err := s.store.GetParticipant(roomID, userID); err != nil {
			return nil, err
		}
	}

	transfer := &models.Transfer{
		RoomID:     roomID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateTransfer(transfer); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TransferRecorded(roomID, *transfer)
	}
	return transfer, nil
}

// ToggleReady updates a participant's ready flag and, when every
// participant of the room is ready, settles the room before returning.
// The room lock serializes concurrent last-ready votes so settlement
// runs exactly once.
func (s *Service) ToggleReady(roomID, userID uuid.UUID, ready bool) (*ReadyStatus, error) {
	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status == models.RoomStatusEnded {
		return nil, ErrRoomEnded
	}

	if _, err := s.store.GetParticipant(roomID, userID); err != nil {
		return nil, err
	}
	if err := s.store.SetReady(roomID, userID, ready); err != nil {
		return nil, err
	}

	participants, err := s.store.ListParticipants(roomID)
	if err != nil {
		return nil, err
	}

	status := &ReadyStatus{TotalCount: len(participants)}
	for _, p := range participants {
		if p.IsReady {
			status.ReadyCount++
		}
	}

	if status.TotalCount > 0 && status.ReadyCount == status.TotalCount {
		if err := s.settle(roomID, participants); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		s.notifier.ReadinessChanged(roomID, userID, status.ReadyCount, status.TotalCount)
	}
	return status, nil
}

// settle computes the plan from the ledger and persists it atomically.
// Caller must hold the room lock.
func (s *Service) settle(roomID uuid.UUID, participants []models.Participant) error {
	transfers, err := s.store.ListTransfers(roomID)
	if err != nil {
		return err
	}

	plan := BuildPlan(roomID, participants, transfers)
	return s.store.FinalizeRoom(roomID, plan)
}

// View returns the live state of a room: participants in join order, the
// ledger, derived balances and the ready counts.
func (s *Service) View(roomID uuid.UUID) (*RoomView, error) {
	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.ListParticipants(roomID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.store.ListTransfers(roomID)
	if err != nil {
		return nil, err
	}

	view := &RoomView{
		Room:         *room,
		Participants: participants,
		Transfers:    transfers,
		Balances:     Balances(participants, transfers),
		TotalCount:   len(participants),
	}
	for _, p := range participants {
		if p.IsReady {
			view.ReadyCount++
		}
	}
	return view, nil
}

// Result returns the final tallies and settlement plan of an ended room.
func (s *Service) Result(roomID uuid.UUID) (*RoomResult, error) {
	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusEnded {
		return nil, ErrRoomNotEnded
	}

	results, err := s.store.ListResults(roomID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.store.ListSettlementTransfers(roomID)
	if err != nil {
		return nil, err
	}

	return &RoomResult{Results: results, Transfers: transfers}, nil
}

// OngoingRooms lists all rooms still in play, flagging the ones the given
// user can still join.
func (s *Service) OngoingRooms(userID uuid.UUID) ([]RoomSummary, error) {
	rooms, err := s.store.ListOngoingRooms()
	if err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summary := RoomSummary{
			ID:          room.ID,
			Name:        room.Name,
			Type:        room.Type,
			CreatorID:   room.CreatorID,
			CreatorName: room.Creator.Username,
			PlayerCount: len(room.Participants),
			CanJoin:     true,
			CreatedAt:   room.CreatedAt,
		}
		for _, p := range room.Participants {
			if p.UserID == userID {
				summary.CanJoin = false
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

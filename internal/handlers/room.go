package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/game"
	"github.com/thereayou/tilescore/internal/middleware"
)

type RoomHandler struct {
	service *game.Service
}

func NewRoomHandler(service *game.Service) *RoomHandler {
	return &RoomHandler{service: service}
}

// statusForError maps core errors to HTTP codes: missing records to 404,
// state conflicts to 409, bad input to 400, everything else to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, game.ErrRoomNotFound), errors.Is(err, game.ErrNotParticipant):
		return http.StatusNotFound
	case errors.Is(err, game.ErrRoomEnded), errors.Is(err, game.ErrAlreadyJoined), errors.Is(err, game.ErrRoomNotEnded):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidRoomType), errors.Is(err, game.ErrInvalidAmount), errors.Is(err, game.ErrSelfTransfer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("Room operation failed: %v", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func roomIDParam(c *gin.Context) (uuid.UUID, bool) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return uuid.Nil, false
	}
	return roomID, true
}

// CreateRoom opens a new room with the caller seated in it.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		Name    string `json:"name" binding:"required"`
		Type    string `json:"type" binding:"required"`
		Remarks string `json:"remarks"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.service.CreateRoom(req.Name, req.Type, req.Remarks, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":              room.ID,
		"name":            room.Name,
		"type":            room.Type,
		"remarks":         room.Remarks,
		"status":          room.Status,
		"begin_direction": room.BeginDirection,
		"created_by":      room.CreatorID,
		"created_at":      room.CreatedAt,
	})
}

// JoinRoom seats the caller in an ongoing room.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	participant, err := h.service.JoinRoom(roomID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":   participant.RoomID,
		"user_id":   participant.UserID,
		"direction": participant.Direction,
		"is_ready":  participant.IsReady,
		"joined_at": participant.JoinedAt,
	})
}

// GetRoom returns the live room view: players, ledger, balances, status.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	view, err := h.service.View(roomID)
	if err != nil {
		fail(c, err)
		return
	}

	participants := make([]gin.H, len(view.Participants))
	for i, p := range view.Participants {
		participants[i] = gin.H{
			"user_id":    p.UserID,
			"username":   p.User.Username,
			"direction":  p.Direction,
			"is_ready":   p.IsReady,
			"is_creator": p.UserID == view.Room.CreatorID,
			"balance":    view.Balances[p.UserID],
			"joined_at":  p.JoinedAt,
		}
	}

	transfers := make([]gin.H, len(view.Transfers))
	for i, t := range view.Transfers {
		transfers[i] = gin.H{
			"id":            t.ID,
			"from_user_id":  t.FromUserID,
			"from_username": t.FromUser.Username,
			"to_user_id":    t.ToUserID,
			"to_username":   t.ToUser.Username,
			"amount":        t.Amount,
			"created_at":    t.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              view.Room.ID,
		"name":            view.Room.Name,
		"type":            view.Room.Type,
		"status":          view.Room.Status,
		"begin_direction": view.Room.BeginDirection,
		"created_by":      view.Room.CreatorID,
		"created_at":      view.Room.CreatedAt,
		"ended_at":        view.Room.EndedAt,
		"participants":    participants,
		"transfers":       transfers,
		"ready_count":     view.ReadyCount,
		"total_count":     view.TotalCount,
	})
}

// RecordTransfer appends a point transfer to the room ledger.
func (h *RoomHandler) RecordTransfer(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req struct {
		FromUserID string `json:"from_user_id" binding:"required"`
		ToUserID   string `json:"to_user_id" binding:"required"`
		Amount     int    `json:"amount" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fromID, err := uuid.Parse(req.FromUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from_user_id"})
		return
	}
	toID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to_user_id"})
		return
	}

	transfer, err := h.service.RecordTransfer(roomID, fromID, toID, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           transfer.ID,
		"room_id":      transfer.RoomID,
		"from_user_id": transfer.FromUserID,
		"to_user_id":   transfer.ToUserID,
		"amount":       transfer.Amount,
		"created_at":   transfer.CreatedAt,
	})
}

// ToggleReady flips the caller's ready vote; when the vote becomes
// universal the room settles before this call returns.
func (h *RoomHandler) ToggleReady(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Ready *bool `json:"ready" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.service.ToggleReady(roomID, userID, *req.Ready)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ready_count": status.ReadyCount,
		"total_count": status.TotalCount,
	})
}

// GetResult returns the final tallies and settlement plan of an ended room.
func (h *RoomHandler) GetResult(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.Result(roomID)
	if err != nil {
		fail(c, err)
		return
	}

	results := make([]gin.H, len(result.Results))
	for i, r := range result.Results {
		results[i] = gin.H{
			"user_id":    r.UserID,
			"username":   r.User.Username,
			"total_win":  r.TotalWin,
			"total_lose": r.TotalLose,
			"net":        r.Net,
		}
	}

	settlements := make([]gin.H, len(result.Transfers))
	for i, t := range result.Transfers {
		settlements[i] = gin.H{
			"from_user_id":  t.FromUserID,
			"from_username": t.FromUser.Username,
			"to_user_id":    t.ToUserID,
			"to_username":   t.ToUser.Username,
			"amount":        t.Amount,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":              results,
		"settlement_transfers": settlements,
	})
}

// OngoingRooms lists rooms still in play.
func (h *RoomHandler) OngoingRooms(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	summaries, err := h.service.OngoingRooms(userID)
	if err != nil {
		fail(c, err)
		return
	}

	rooms := make([]gin.H, len(summaries))
	for i, s := range summaries {
		rooms[i] = gin.H{
			"id":           s.ID,
			"name":         s.Name,
			"type":         s.Type,
			"creator_name": s.CreatorName,
			"player_count": s.PlayerCount,
			"can_join":     s.CanJoin,
			"created_at":   s.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

package game

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomEnded       = errors.New("room already ended")
	ErrRoomNotEnded    = errors.New("room not ended yet")
	ErrAlreadyJoined   = errors.New("user already joined this room")
	ErrNotParticipant  = errors.New("user is not a participant of this room")
	ErrInvalidRoomType = errors.New("invalid room type")
	ErrInvalidAmount   = errors.New("transfer amount must be positive")
	ErrSelfTransfer    = errors.New("cannot transfer points to yourself")
)

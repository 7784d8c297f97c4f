package game

import (
	"sync"

	"github.com/google/uuid"
)

// roomLocks hands out one mutex per room so that the ready-vote check and
// the settlement it may trigger are serialized per room. Two simultaneous
// "last ready" votes must not both observe all-ready.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (r *roomLocks) get(roomID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[roomID] = lock
	}
	return lock
}

package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

// MessageType tags every frame exchanged with clients.
type MessageType string

const (
	// Connection control
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"

	// Client requests
	TypeRoomJoin  MessageType = "room_join"
	TypeRoomLeave MessageType = "room_leave"

	// Room events
	TypeUserJoined       MessageType = "user_joined"
	TypeUserLeft         MessageType = "user_left"
	TypeTransferRecorded MessageType = "transfer_recorded"
	TypeReadinessChanged MessageType = "readiness_changed"

	TypeError MessageType = "error"
)

type Message struct {
	Type      MessageType     `json:"type"`
	RoomID    *uuid.UUID      `json:"room_id,omitempty"`
	UserID    uuid.UUID       `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub is the presence registry: it knows, for every live connection,
// which user and which room it belongs to, and routes room events to
// every connection of that room. State is process-local; clients re-join
// and re-fetch state on reconnect.
type Hub struct {
	// Connections by connection id
	clients map[uuid.UUID]*Client

	// One live connection per user. A new connection for the same user
	// evicts the old one, migrating the user between rooms on reconnect.
	userConns map[uuid.UUID]*Client

	// Connections grouped by room
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		userConns:  make(map[uuid.UUID]*Client),
		rooms:      make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes registrations until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.closeSend()
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.userConns = make(map[uuid.UUID]*Client)
	h.rooms = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Evict the user's previous connection, if any. Its read pump may
	// still be mid-frame, so the queue is closed through closeSend and
	// never a bare close.
	if old, ok := h.userConns[client.UserID]; ok && old.ID != client.ID {
		h.removeFromRoomUnsafe(old)
		delete(h.clients, old.ID)
		old.closeSend()
		if old.Conn != nil {
			old.Conn.Close()
		}
	}

	h.clients[client.ID] = client
	h.userConns[client.UserID] = client

	log.Printf("Client registered: %s (user: %s)", client.ID, client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Duplicate disconnect events are no-ops.
	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	h.removeFromRoomUnsafe(client)

	if current, ok := h.userConns[client.UserID]; ok && current.ID == client.ID {
		delete(h.userConns, client.UserID)
	}
	delete(h.clients, client.ID)
	client.closeSend()

	log.Printf("Client unregistered: %s (user: %s)", client.ID, client.UserID)
}

// JoinRoom moves the connection into a room's broadcast group, leaving
// its previous room first. Other members are notified; the joining
// connection itself is not.
func (h *Hub) JoinRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomUnsafe(client)

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[roomID][client.ID] = client
	client.setRoom(roomID)

	h.broadcastToRoomExcept(roomID, &Message{
		Type:      TypeUserJoined,
		RoomID:    &roomID,
		UserID:    client.UserID,
		Timestamp: time.Now(),
	}, client.ID)
}

// LeaveRoom removes the connection from its room's broadcast group.
func (h *Hub) LeaveRoom(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomUnsafe(client)
}

func (h *Hub) removeFromRoomUnsafe(client *Client) {
	roomID, ok := client.room()
	if !ok {
		return
	}
	client.clearRoom()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(room, client.ID)

	if len(room) == 0 {
		delete(h.rooms, roomID)
		return
	}

	h.broadcastToRoomExcept(roomID, &Message{
		Type:      TypeUserLeft,
		RoomID:    &roomID,
		UserID:    client.UserID,
		Timestamp: time.Now(),
	}, client.ID)
}

// Lookup resolves a connection id to its user and room.
func (h *Hub) Lookup(connID uuid.UUID) (userID, roomID uuid.UUID, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, found := h.clients[connID]
	if !found {
		return uuid.Nil, uuid.Nil, false
	}
	room, _ := client.room()
	return client.UserID, room, true
}

// RoomUsers returns the users currently connected to a room.
func (h *Hub) RoomUsers(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	users := make([]uuid.UUID, 0)
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			if !seen[client.UserID] {
				seen[client.UserID] = true
				users = append(users, client.UserID)
			}
		}
	}
	return users
}

// TransferRecorded notifies a room that a point transfer was written.
func (h *Hub) TransferRecorded(roomID uuid.UUID, transfer models.Transfer) {
	payload, err := json.Marshal(map[string]interface{}{
		"id":           transfer.ID,
		"from_user_id": transfer.FromUserID,
		"to_user_id":   transfer.ToUserID,
		"amount":       transfer.Amount,
		"created_at":   transfer.CreatedAt,
	})
	if err != nil {
		log.Printf("Failed to marshal transfer event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.broadcastToRoomExcept(roomID, &Message{
		Type:      TypeTransferRecorded,
		RoomID:    &roomID,
		Data:      payload,
		Timestamp: time.Now(),
	}, uuid.Nil)
}

// ReadinessChanged notifies a room of the current ready vote count.
func (h *Hub) ReadinessChanged(roomID, userID uuid.UUID, readyCount, totalCount int) {
	payload, err := json.Marshal(map[string]interface{}{
		"ready_count": readyCount,
		"total_count": totalCount,
	})
	if err != nil {
		log.Printf("Failed to marshal readiness event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.broadcastToRoomExcept(roomID, &Message{
		Type:      TypeReadinessChanged,
		RoomID:    &roomID,
		UserID:    userID,
		Data:      payload,
		Timestamp: time.Now(),
	}, uuid.Nil)
}

// broadcastToRoomExcept delivers best-effort, at most once per send: a
// client whose queue is full simply misses the event and resyncs later.
func (h *Hub) broadcastToRoomExcept(roomID uuid.UUID, msg *Message, excludeID uuid.UUID) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal broadcast: %v", err)
		return
	}

	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			if client.ID == excludeID {
				continue
			}
			select {
			case client.Send <- data:
			default:
				log.Printf("Client %s send channel full", client.ID)
			}
		}
	}
}

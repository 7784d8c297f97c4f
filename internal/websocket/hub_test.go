package websocket

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/thereayou/tilescore/internal/models"
)

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, uuid.New())
}

func receiveMessage(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		return &msg
	default:
		t.Fatal("expected a queued message")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected message: %s", data)
	default:
	}
}

func TestLookup(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub)
	roomID := uuid.New()

	hub.registerClient(client)
	hub.JoinRoom(client, roomID)

	userID, gotRoom, ok := hub.Lookup(client.ID)
	if !ok {
		t.Fatal("expected connection to be known")
	}
	if userID != client.UserID || gotRoom != roomID {
		t.Errorf("Lookup = (%s, %s), want (%s, %s)", userID, gotRoom, client.UserID, roomID)
	}

	if _, _, ok := hub.Lookup(uuid.New()); ok {
		t.Error("unknown connection id should not resolve")
	}
}

func TestRegisterEvictsPreviousConnection(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	first := newTestClient(hub)
	hub.registerClient(first)
	hub.JoinRoom(first, roomID)

	// Same user reconnects with a fresh connection.
	second := NewClient(hub, nil, first.UserID)
	hub.registerClient(second)

	if _, _, ok := hub.Lookup(first.ID); ok {
		t.Error("evicted connection should be gone from the registry")
	}
	if len(hub.RoomUsers(roomID)) != 0 {
		t.Error("evicted connection should have left its room group")
	}
	if _, open := <-first.Send; open {
		t.Error("evicted connection's send channel should be closed")
	}

	if _, _, ok := hub.Lookup(second.ID); !ok {
		t.Error("new connection should be registered")
	}
}

func TestEvictedConnectionSendIsSafe(t *testing.T) {
	hub := NewHub()

	first := newTestClient(hub)
	hub.registerClient(first)

	second := NewClient(hub, nil, first.UserID)
	hub.registerClient(second)

	// The evicted read pump may still be handling a frame it already
	// read; its replies must fail cleanly, not panic on a closed queue.
	if err := first.SendMessage(TypeError, nil); !errors.Is(err, ErrClientClosed) {
		t.Errorf("SendMessage after eviction = %v, want ErrClientClosed", err)
	}
	first.SendError("late reply")
}

func TestStoppedHubSendIsSafe(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub)
	hub.registerClient(client)

	hub.Stop()

	if err := client.SendMessage(TypePong, nil); !errors.Is(err, ErrClientClosed) {
		t.Errorf("SendMessage after Stop = %v, want ErrClientClosed", err)
	}
}

func TestLeaveWithoutRoomReportsError(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub)
	hub.registerClient(client)

	client.handleRoomLeave()

	msg := receiveMessage(t, client)
	if msg.Type != TypeError {
		t.Fatalf("got %q, want %q", msg.Type, TypeError)
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Error != ErrRoomNotJoined.Error() {
		t.Errorf("error = %q, want %q", payload.Error, ErrRoomNotJoined.Error())
	}

	// A connection that is in a room leaves without complaint.
	roomID := uuid.New()
	hub.JoinRoom(client, roomID)
	client.handleRoomLeave()
	assertNoMessage(t, client)
	if len(hub.RoomUsers(roomID)) != 0 {
		t.Error("connection still listed in room after leaving")
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub)

	hub.registerClient(client)
	hub.unregisterClient(client)
	// Duplicate disconnect events must be no-ops.
	hub.unregisterClient(client)

	if _, _, ok := hub.Lookup(client.ID); ok {
		t.Error("unregistered connection still resolvable")
	}
}

func TestJoinRoomMigration(t *testing.T) {
	hub := NewHub()
	roomA, roomB := uuid.New(), uuid.New()

	mover := newTestClient(hub)
	watcherA := newTestClient(hub)
	hub.registerClient(mover)
	hub.registerClient(watcherA)

	hub.JoinRoom(watcherA, roomA)
	hub.JoinRoom(mover, roomA)
	receiveMessage(t, watcherA) // user_joined for mover

	hub.JoinRoom(mover, roomB)

	msg := receiveMessage(t, watcherA)
	if msg.Type != TypeUserLeft {
		t.Errorf("watcher got %q, want %q", msg.Type, TypeUserLeft)
	}

	if users := hub.RoomUsers(roomB); len(users) != 1 || users[0] != mover.UserID {
		t.Errorf("room B users = %v", users)
	}
	for _, userID := range hub.RoomUsers(roomA) {
		if userID == mover.UserID {
			t.Error("mover still listed in room A")
		}
	}
}

func TestJoinExcludesOriginator(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	resident := newTestClient(hub)
	joiner := newTestClient(hub)
	hub.registerClient(resident)
	hub.registerClient(joiner)

	hub.JoinRoom(resident, roomID)
	hub.JoinRoom(joiner, roomID)

	msg := receiveMessage(t, resident)
	if msg.Type != TypeUserJoined || msg.UserID != joiner.UserID {
		t.Errorf("resident got %q from %s", msg.Type, msg.UserID)
	}
	assertNoMessage(t, joiner)
}

func TestTransferRecordedDelivery(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.registerClient(a)
	hub.registerClient(b)
	hub.JoinRoom(a, roomID)
	hub.JoinRoom(b, roomID)
	receiveMessage(t, a) // b's user_joined

	transfer := models.Transfer{
		ID:         uuid.New(),
		RoomID:     roomID,
		FromUserID: a.UserID,
		ToUserID:   b.UserID,
		Amount:     42,
	}
	hub.TransferRecorded(roomID, transfer)

	for _, client := range []*Client{a, b} {
		msg := receiveMessage(t, client)
		if msg.Type != TypeTransferRecorded {
			t.Errorf("got %q, want %q", msg.Type, TypeTransferRecorded)
		}
	}
}

func TestReadinessChangedDelivery(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	client := newTestClient(hub)
	hub.registerClient(client)
	hub.JoinRoom(client, roomID)

	hub.ReadinessChanged(roomID, client.UserID, 2, 4)

	msg := receiveMessage(t, client)
	if msg.Type != TypeReadinessChanged {
		t.Fatalf("got %q, want %q", msg.Type, TypeReadinessChanged)
	}

	var payload struct {
		ReadyCount int `json:"ready_count"`
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.ReadyCount != 2 || payload.TotalCount != 4 {
		t.Errorf("payload = %d/%d, want 2/4", payload.ReadyCount, payload.TotalCount)
	}
}

func TestBroadcastDoesNotBlockOnFullQueue(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	stuck := newTestClient(hub)
	hub.registerClient(stuck)
	hub.JoinRoom(stuck, roomID)

	for i := 0; i < cap(stuck.Send); i++ {
		stuck.Send <- []byte("{}")
	}

	// Must return immediately, dropping the event for the full client.
	hub.ReadinessChanged(roomID, uuid.New(), 1, 2)
}

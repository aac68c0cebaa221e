package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chushi0/jp-mahjong-server/game/engines"
	"github.com/chushi0/jp-mahjong-server/game/share"
)

// stubEngine 记录生命周期调用
type stubEngine struct {
	mu          sync.Mutex
	initialized bool
	roomID      string
	events      []share.GameEvent
	closed      bool
}

func (e *stubEngine) InitializeEngine(roomID string, users map[string]*share.UserInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
	e.roomID = roomID
	return nil
}

func (e *stubEngine) NotifyEvent(event share.GameEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *stubEngine) Clone() engines.Engine { return &stubEngine{} }
func (e *stubEngine) Terminate()            {}

func (e *stubEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *stubEngine) isInitialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for: %s", msg)
}

func newTestManager(t *testing.T) *RoomManager {
	t.Helper()
	rm := NewRoomManager(nil)
	if err := rm.SetEnginePrototype(engines.RIICHI_MAHJONG_4P_ENGINE, &stubEngine{}); err != nil {
		t.Fatalf("SetEnginePrototype failed: %v", err)
	}
	return rm
}

func TestRoomManager_CreateAndFill(t *testing.T) {
	rm := newTestManager(t)

	room, seatIndex, err := rm.CreateRoom(engines.RIICHI_MAHJONG_4P_ENGINE, "creator", "node-1", nil)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if seatIndex != 0 {
		t.Fatalf("creator seat expected 0, got %d", seatIndex)
	}

	// 同一玩家不能再开房
	if _, _, err := rm.CreateRoom(engines.RIICHI_MAHJONG_4P_ENGINE, "creator", "node-1", nil); err == nil {
		t.Fatalf("duplicate create must fail")
	}

	seats := map[int]bool{seatIndex: true}
	for i := 1; i < 4; i++ {
		seat, err := rm.JoinRoom(room.ID, fmt.Sprintf("player%d", i), "node-1")
		if err != nil {
			t.Fatalf("JoinRoom %d failed: %v", i, err)
		}
		if seats[seat] {
			t.Fatalf("seat %d assigned twice", seat)
		}
		seats[seat] = true
	}

	// 满员后引擎自动启动
	engine := room.Engine.(*stubEngine)
	waitFor(t, engine.isInitialized, "engine start after room fills")
	waitFor(t, func() bool { return room.GetStatus() == RoomStatusPlaying }, "room status playing")

	// 对局中禁止离座和加座
	if err := rm.LeaveRoom("creator"); err == nil {
		t.Fatalf("leaving a playing room must fail")
	}
	if _, err := rm.JoinRoom(room.ID, "latecomer", "node-1"); err == nil {
		t.Fatalf("joining a playing room must fail")
	}

	// 对局事件转发给引擎
	room.NotifyEvent(&share.PassEvent{GameMessageEvent: share.GameMessageEvent{UserID: "creator"}})
	waitFor(t, func() bool {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		return len(engine.events) == 1
	}, "event forwarded to engine")

	roomCount, playerCount := rm.GetStats()
	if roomCount != 1 || playerCount != 4 {
		t.Fatalf("stats expected 1 room / 4 players, got %d/%d", roomCount, playerCount)
	}
}

func TestRoomManager_JoinUnknownRoom(t *testing.T) {
	rm := newTestManager(t)
	if _, err := rm.JoinRoom("missing", "u1", "node-1"); err == nil {
		t.Fatalf("joining unknown room must fail")
	}
}

func TestRoomManager_LeaveWhileWaiting(t *testing.T) {
	rm := newTestManager(t)
	room, _, err := rm.CreateRoom(engines.RIICHI_MAHJONG_4P_ENGINE, "creator", "node-1", nil)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := rm.JoinRoom(room.ID, "u1", "node-1"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	if err := rm.LeaveRoom("u1"); err != nil {
		t.Fatalf("LeaveRoom failed: %v", err)
	}
	if _, exists := rm.GetPlayerRoom("u1"); exists {
		t.Fatalf("left player must be unbound")
	}
	if room.GetPlayerCount() != 1 {
		t.Fatalf("room should have 1 player left, got %d", room.GetPlayerCount())
	}

	// 重复离开报错
	if err := rm.LeaveRoom("u1"); err == nil {
		t.Fatalf("second leave must fail")
	}
}

func TestRoomManager_DeleteRoom(t *testing.T) {
	rm := newTestManager(t)
	room, _, err := rm.CreateRoom(engines.RIICHI_MAHJONG_4P_ENGINE, "creator", "node-1", nil)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	if err := rm.DeleteRoom(room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	engine := room.Engine.(*stubEngine)
	engine.mu.Lock()
	closed := engine.closed
	engine.mu.Unlock()
	if !closed {
		t.Fatalf("deleting a room must close its engine")
	}

	if _, exists := rm.GetRoom(room.ID); exists {
		t.Fatalf("deleted room must disappear")
	}
	if _, exists := rm.GetPlayerRoom("creator"); exists {
		t.Fatalf("deleting a room must unbind its players")
	}

	roomCount, playerCount := rm.GetStats()
	if roomCount != 0 || playerCount != 0 {
		t.Fatalf("stats expected empty, got %d/%d", roomCount, playerCount)
	}
}

func TestRoom_SeatAssignment(t *testing.T) {
	room := NewRoom("r1", &stubEngine{})
	for i := 0; i < MaxPlayers; i++ {
		seat, err := room.SeatJoin(fmt.Sprintf("u%d", i), "node-1")
		if err != nil {
			t.Fatalf("SeatJoin %d failed: %v", i, err)
		}
		if seat != i {
			t.Fatalf("seat expected %d, got %d", i, seat)
		}
	}
	if _, err := room.SeatJoin("u5", "node-1"); err == nil {
		t.Fatalf("fifth player must be rejected")
	}

	// 中途离座后座位可复用
	if err := room.SeatLeave("u1"); err != nil {
		t.Fatalf("SeatLeave failed: %v", err)
	}
	seat, err := room.SeatJoin("u6", "node-1")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if seat != 1 {
		t.Fatalf("vacated seat 1 expected, got %d", seat)
	}
}

package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/game/engines"
	"github.com/chushi0/jp-mahjong-server/game/share"
)

const (
	MaxPlayers = 4 // 立直麻将四人

	// 房间等待满员的最长时间，超时销毁
	RoomFillTimeout = 5 * time.Minute
)

type RoomStatus int

const (
	RoomStatusWaiting  RoomStatus = iota // 等待玩家
	RoomStatusPlaying                    // 对局中
	RoomStatusFinished                   // 已结束
)

// Room 游戏房间
// 名单变更由互斥锁保护，开局协程用条件变量等待满员
type Room struct {
	ID        string
	Users     map[string]*share.UserInfo // userID -> UserInfo（与 Engine 共用）
	Engine    engines.Engine
	Status    RoomStatus
	CreatedAt time.Time

	mu     sync.RWMutex
	cond   *sync.Cond
	closed bool
}

func NewRoom(roomID string, engine engines.Engine) *Room {
	room := &Room{
		ID:        roomID,
		Users:     make(map[string]*share.UserInfo, MaxPlayers),
		Engine:    engine,
		Status:    RoomStatusWaiting,
		CreatedAt: time.Now(),
	}
	room.cond = sync.NewCond(&room.mu)
	return room
}

// SeatJoin 玩家入座，返回座位索引
func (r *Room) SeatJoin(userID, connectorNodeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != RoomStatusWaiting {
		return -1, fmt.Errorf("房间 %s 不在等待状态", r.ID)
	}
	if len(r.Users) >= MaxPlayers {
		return -1, fmt.Errorf("房间 %s 已满", r.ID)
	}
	if _, exists := r.Users[userID]; exists {
		return -1, fmt.Errorf("玩家 %s 已在房间中", userID)
	}

	seatIndex := r.findAvailableSeat()
	if seatIndex < 0 {
		return -1, fmt.Errorf("房间 %s 没有可用座位", r.ID)
	}

	userInfo := share.NewUserInfo(userID, connectorNodeID)
	userInfo.SeatIndex = seatIndex
	userInfo.IsReady = true
	r.Users[userID] = userInfo

	log.Info("Room[%s] 玩家 %s 入座: seat=%d", r.ID, userID, seatIndex)
	r.cond.Broadcast()
	return seatIndex, nil
}

// SeatLeave 玩家离座，只允许在等待阶段离开
func (r *Room) SeatLeave(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != RoomStatusWaiting {
		return fmt.Errorf("房间 %s 对局已开始，无法离座", r.ID)
	}
	if _, exists := r.Users[userID]; !exists {
		return fmt.Errorf("玩家 %s 不在房间中", userID)
	}

	delete(r.Users, userID)
	log.Info("Room[%s] 玩家 %s 离座", r.ID, userID)
	r.cond.Broadcast()
	return nil
}

func (r *Room) GetPlayer(userID string) (*share.UserInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userInfo, exists := r.Users[userID]
	return userInfo, exists
}

func (r *Room) GetPlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Users)
}

func (r *Room) GetStatus() RoomStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

func (r *Room) IsFull() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Users) >= MaxPlayers
}

// WaitAndStart 等待满员后启动引擎
// 房间关闭或超时返回错误，调用方负责销毁房间
func (r *Room) WaitAndStart() error {
	deadline := time.Now().Add(RoomFillTimeout)

	// 条件变量没有带超时的等待，由定时广播解除阻塞
	wakeup := time.AfterFunc(RoomFillTimeout, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer wakeup.Stop()

	r.mu.Lock()
	for {
		if r.closed {
			r.mu.Unlock()
			return fmt.Errorf("房间 %s 已关闭", r.ID)
		}
		if r.allReady() {
			break
		}
		if time.Now().After(deadline) {
			r.mu.Unlock()
			return fmt.Errorf("房间 %s 等待满员超时", r.ID)
		}
		r.cond.Wait()
	}
	r.Status = RoomStatusPlaying
	r.mu.Unlock()

	if err := r.Engine.InitializeEngine(r.ID, r.Users); err != nil {
		return fmt.Errorf("房间 %s 启动引擎失败: %v", r.ID, err)
	}
	log.Info("Room[%s] 对局开始", r.ID)
	return nil
}

// allReady 满员且全部准备，调用方持有锁
func (r *Room) allReady() bool {
	if len(r.Users) < MaxPlayers {
		return false
	}
	for _, userInfo := range r.Users {
		if !userInfo.IsReady {
			return false
		}
	}
	return true
}

// NotifyEvent 把玩家操作转发给引擎
func (r *Room) NotifyEvent(event share.GameEvent) {
	if r.GetStatus() != RoomStatusPlaying {
		return
	}
	r.Engine.NotifyEvent(event)
}

// Close 释放房间资源
func (r *Room) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.Status = RoomStatusFinished
	r.cond.Broadcast()
	r.mu.Unlock()

	if r.Engine != nil {
		r.Engine.Close()
	}
	log.Info("Room[%s] 已关闭", r.ID)
}

func (r *Room) findAvailableSeat() int {
	occupied := [MaxPlayers]bool{}
	for _, userInfo := range r.Users {
		if userInfo.SeatIndex >= 0 && userInfo.SeatIndex < MaxPlayers {
			occupied[userInfo.SeatIndex] = true
		}
	}
	for i := 0; i < MaxPlayers; i++ {
		if !occupied[i] {
			return i
		}
	}
	return -1
}

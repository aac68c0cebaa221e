package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chushi0/jp-mahjong-server/common/database"
	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/game/engines"
)

const routeKeyPrefix = "game:route:" // userID -> roomID，重连寻路用

// RoomManager 房间注册表
// Engine 使用原型模式，创建房间时克隆
type RoomManager struct {
	rooms            map[string]*Room
	playerRoom       map[string]string
	enginePrototypes map[engines.EngineType]engines.Engine
	redis            *database.RedisManager // 可选，玩家路由的写穿缓存
	mu               sync.RWMutex
}

func NewRoomManager(redis *database.RedisManager) *RoomManager {
	return &RoomManager{
		rooms:            make(map[string]*Room),
		playerRoom:       make(map[string]string),
		enginePrototypes: make(map[engines.EngineType]engines.Engine),
		redis:            redis,
	}
}

// SetEnginePrototype 注入引擎原型，启动时调用
func (rm *RoomManager) SetEnginePrototype(engineType engines.EngineType, engine engines.Engine) error {
	if engine == nil {
		return fmt.Errorf("引擎原型不能为空")
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.enginePrototypes[engineType] = engine
	log.Info("RoomManager 注入引擎原型: engineType=%d", engineType)
	return nil
}

// CreateRoom 创建房间并让创建者入座
// 开局等待在独立协程中进行，满员自动启动引擎
func (rm *RoomManager) CreateRoom(engineType engines.EngineType, creatorID, connectorNodeID string, onAbandon func(roomID string)) (*Room, int, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if roomID, exists := rm.playerRoom[creatorID]; exists {
		return nil, -1, fmt.Errorf("玩家 %s 已在房间 %s 中", creatorID, roomID)
	}

	prototype, exists := rm.enginePrototypes[engineType]
	if !exists {
		return nil, -1, fmt.Errorf("不支持的引擎类型: %d", engineType)
	}
	engine := prototype.Clone()
	if engine == nil {
		return nil, -1, fmt.Errorf("克隆游戏引擎失败: engineType=%d", engineType)
	}

	room := NewRoom(uuid.NewString(), engine)
	seatIndex, err := room.SeatJoin(creatorID, connectorNodeID)
	if err != nil {
		return nil, -1, err
	}

	rm.rooms[room.ID] = room
	rm.bindPlayer(creatorID, room.ID)

	go func() {
		if err := room.WaitAndStart(); err != nil {
			log.Warn("房间开局失败: %v", err)
			if onAbandon != nil {
				onAbandon(room.ID)
			}
		}
	}()

	log.Info("RoomManager 创建房间 %s, creator=%s", room.ID, creatorID)
	return room, seatIndex, nil
}

// JoinRoom 玩家加入已有房间
func (rm *RoomManager) JoinRoom(roomID, userID, connectorNodeID string) (int, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if existing, exists := rm.playerRoom[userID]; exists {
		return -1, fmt.Errorf("玩家 %s 已在房间 %s 中", userID, existing)
	}
	room, exists := rm.rooms[roomID]
	if !exists {
		return -1, fmt.Errorf("房间 %s 不存在", roomID)
	}

	seatIndex, err := room.SeatJoin(userID, connectorNodeID)
	if err != nil {
		return -1, err
	}
	rm.bindPlayer(userID, room.ID)
	return seatIndex, nil
}

// LeaveRoom 玩家离开等待中的房间
func (rm *RoomManager) LeaveRoom(userID string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	roomID, exists := rm.playerRoom[userID]
	if !exists {
		return fmt.Errorf("玩家 %s 不在任何房间中", userID)
	}
	room, exists := rm.rooms[roomID]
	if !exists {
		delete(rm.playerRoom, userID)
		return nil
	}
	if err := room.SeatLeave(userID); err != nil {
		return err
	}
	rm.unbindPlayer(userID)
	return nil
}

func (rm *RoomManager) GetRoom(roomID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	room, exists := rm.rooms[roomID]
	return room, exists
}

// GetPlayerRoom 查找玩家所在房间，本地表优先，redis 兜底
func (rm *RoomManager) GetPlayerRoom(userID string) (*Room, bool) {
	rm.mu.RLock()
	roomID, exists := rm.playerRoom[userID]
	if !exists && rm.redis != nil {
		rm.mu.RUnlock()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		cached, err := rm.redis.Cli.Get(ctx, routeKeyPrefix+userID).Result()
		if err != nil {
			return nil, false
		}
		rm.mu.RLock()
		roomID, exists = cached, true
	}
	room, found := rm.rooms[roomID]
	rm.mu.RUnlock()
	return room, exists && found
}

// UpdatePlayerConnector 重连后重绑推送通道
func (rm *RoomManager) UpdatePlayerConnector(userID, connectorNodeID string) error {
	room, exists := rm.GetPlayerRoom(userID)
	if !exists {
		return fmt.Errorf("玩家 %s 不在任何房间中", userID)
	}
	userInfo, exists := room.GetPlayer(userID)
	if !exists {
		return fmt.Errorf("玩家 %s 不在房间 %s 中", userID, room.ID)
	}
	userInfo.SetOnline(connectorNodeID)
	log.Info("RoomManager 更新玩家 %s 的推送通道: %s", userID, connectorNodeID)
	return nil
}

// DeleteRoom 销毁房间并清理路由
func (rm *RoomManager) DeleteRoom(roomID string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[roomID]
	if !exists {
		return fmt.Errorf("房间 %s 不存在", roomID)
	}

	room.mu.RLock()
	userIDs := make([]string, 0, len(room.Users))
	for userID := range room.Users {
		userIDs = append(userIDs, userID)
	}
	room.mu.RUnlock()

	for _, userID := range userIDs {
		rm.unbindPlayer(userID)
	}
	room.Close()
	delete(rm.rooms, roomID)

	log.Info("RoomManager 删除房间 %s", roomID)
	return nil
}

// GetStats 房间数与玩家数，Monitor 用
func (rm *RoomManager) GetStats() (roomCount int, playerCount int) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms), len(rm.playerRoom)
}

// bindPlayer 调用方持有写锁
func (rm *RoomManager) bindPlayer(userID, roomID string) {
	rm.playerRoom[userID] = roomID
	if rm.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := rm.redis.Cli.Set(ctx, routeKeyPrefix+userID, roomID, 0).Err(); err != nil {
			log.Warn("写入玩家路由缓存失败: user=%s, err=%v", userID, err)
		}
	}
}

// unbindPlayer 调用方持有写锁
func (rm *RoomManager) unbindPlayer(userID string) {
	delete(rm.playerRoom, userID)
	if rm.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := rm.redis.Cli.Del(ctx, routeKeyPrefix+userID).Err(); err != nil {
			log.Warn("清理玩家路由缓存失败: user=%s, err=%v", userID, err)
		}
	}
}

package conn

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/game"
)

// Frame WebSocket 帧，入站出站共用
type Frame struct {
	Route string          `json:"route"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// WsSession 单个玩家的 WebSocket 会话
// 读协程负责把入站帧解码成游戏事件并转发给房间引擎，
// 写协程串行化所有出站写操作
type WsSession struct {
	UserID  string
	conn    *websocket.Conn
	manager *SessionManager

	sendCh    chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func newWsSession(userID string, ws *websocket.Conn, manager *SessionManager) *WsSession {
	return &WsSession{
		UserID:  userID,
		conn:    ws,
		manager: manager,
		sendCh:  make(chan Frame, sendBuffer),
		done:    make(chan struct{}),
	}
}

// Send 非阻塞投递出站帧，缓冲满则丢弃
func (s *WsSession) Send(frame Frame) {
	select {
	case s.sendCh <- frame:
	case <-s.done:
	default:
		log.Warn("WsSession[%s] 发送缓冲已满，丢弃帧: route=%s", s.UserID, frame.Route)
	}
}

func (s *WsSession) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WsSession[%s] 连接异常断开: %v", s.UserID, err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Warn("WsSession[%s] 帧解析失败: %v", s.UserID, err)
			continue
		}
		s.manager.dispatch(s.UserID, frame)
	}
}

func (s *WsSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			return
		case frame := <-s.sendCh:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				log.Warn("WsSession[%s] 写入失败: %v", s.UserID, err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close 关闭会话，幂等
func (s *WsSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
		s.manager.detach(s)
	})
}

// SessionManager 会话注册表，同时实现 mahjong.MatchEventSink
type SessionManager struct {
	rooms *game.RoomManager

	mu       sync.RWMutex
	sessions map[string]*WsSession
}

func NewSessionManager(rooms *game.RoomManager) *SessionManager {
	return &SessionManager{
		rooms:    rooms,
		sessions: make(map[string]*WsSession),
	}
}

// Attach 为玩家绑定新连接并启动收发协程
// 同一玩家的旧连接会被顶替关闭
func (sm *SessionManager) Attach(userID string, ws *websocket.Conn) *WsSession {
	session := newWsSession(userID, ws, sm)

	sm.mu.Lock()
	old := sm.sessions[userID]
	sm.sessions[userID] = session
	sm.mu.Unlock()

	if old != nil {
		log.Info("SessionManager 玩家 %s 重复连接，关闭旧会话", userID)
		old.Close()
	}

	go session.readPump()
	go session.writePump()
	return session
}

// detach 只摘除仍然在册的那个会话，避免顶替场景误删新会话
func (sm *SessionManager) detach(s *WsSession) {
	sm.mu.Lock()
	current, exists := sm.sessions[s.UserID]
	if exists && current == s {
		delete(sm.sessions, s.UserID)
	}
	sm.mu.Unlock()
	if !exists || current != s {
		return
	}

	// 标记离线但保留席位，等待重连
	if room, ok := sm.rooms.GetPlayerRoom(s.UserID); ok {
		if userInfo, found := room.GetPlayer(s.UserID); found {
			userInfo.SetOffline()
		}
	}
	log.Info("SessionManager 玩家 %s 会话断开", s.UserID)
}

// dispatch 入站帧解码成游戏事件后转发给玩家所在房间
func (sm *SessionManager) dispatch(userID string, frame Frame) {
	event, err := decodeGameEvent(userID, frame.Route, frame.Data)
	if err != nil {
		log.Warn("SessionManager 玩家 %s 入站帧无效: %v", userID, err)
		return
	}
	room, exists := sm.rooms.GetPlayerRoom(userID)
	if !exists {
		log.Warn("SessionManager 玩家 %s 不在任何房间中，忽略操作 %s", userID, frame.Route)
		return
	}
	room.NotifyEvent(event)
}

// Push 实现 mahjong.MatchEventSink，逐个投递给在线会话
func (sm *SessionManager) Push(userIDs []string, route string, data []byte) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, userID := range userIDs {
		if session, exists := sm.sessions[userID]; exists {
			session.Send(Frame{Route: route, Data: data})
		}
	}
}

// IsOnline 玩家是否有在线会话
func (sm *SessionManager) IsOnline(userID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	_, exists := sm.sessions[userID]
	return exists
}

// Close 关闭所有会话
func (sm *SessionManager) Close() {
	sm.mu.Lock()
	sessions := make([]*WsSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		sessions = append(sessions, session)
	}
	sm.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

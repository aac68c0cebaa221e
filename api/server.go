package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/chushi0/jp-mahjong-server/common/config"
	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/conn"
	"github.com/chushi0/jp-mahjong-server/game"
	"github.com/chushi0/jp-mahjong-server/game/engines"
	"github.com/chushi0/jp-mahjong-server/game/share"
)

const ctxUserID = "userID"

// Server 对外 HTTP 入口
// 房间生命周期走 REST，对局操作走 /ws 升级后的 WebSocket 会话
type Server struct {
	rooms    *game.RoomManager
	worker   *game.Worker
	sessions *conn.SessionManager
	monitor  *game.Monitor
	jwtConf  config.JwtConf
	serverID string

	engine   *gin.Engine
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

func NewServer(rooms *game.RoomManager, worker *game.Worker, sessions *conn.SessionManager,
	monitor *game.Monitor, jwtConf config.JwtConf, serverID string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	server := &Server{
		rooms:    rooms,
		worker:   worker,
		sessions: sessions,
		monitor:  monitor,
		jwtConf:  jwtConf,
		serverID: serverID,
		engine:   engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	server.registerRoutes()
	return server
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	api.GET("/stats", s.handleStats)

	authed := api.Group("", s.authMiddleware())
	authed.POST("/rooms", s.handleCreateRoom)
	authed.POST("/rooms/:roomId/join", s.handleJoinRoom)
	authed.POST("/rooms/leave", s.handleLeaveRoom)

	s.engine.GET("/ws", s.handleWebSocket)

	if s.jwtConf.AllowTestPath {
		// 本地联调用，生产配置关闭
		api.GET("/token", s.handleDevToken)
	}
}

// authMiddleware 从 Authorization 头或 token 查询参数解出 userID
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := s.authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": err.Error()})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context) (string, error) {
	if s.jwtConf.AllowTestPath {
		if userID := c.Query("userId"); userID != "" {
			return userID, nil
		}
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
			tokenString = auth[len(prefix):]
		}
	}
	if tokenString == "" {
		return "", errMissingToken
	}
	return conn.ParseUserID(tokenString, s.jwtConf.Secret)
}

type createRoomResponse struct {
	RoomID    string `json:"roomId"`
	SeatIndex int    `json:"seatIndex"`
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	room, seatIndex, err := s.rooms.CreateRoom(engines.RIICHI_MAHJONG_4P_ENGINE, userID, s.serverID,
		func(roomID string) {
			s.worker.RequestDestroyRoom(roomID)
		})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": createRoomResponse{RoomID: room.ID, SeatIndex: seatIndex}})
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	roomID := c.Param("roomId")
	seatIndex, err := s.rooms.JoinRoom(roomID, userID, s.serverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": createRoomResponse{RoomID: roomID, SeatIndex: seatIndex}})
}

func (s *Server) handleLeaveRoom(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	if err := s.rooms.LeaveRoom(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

func (s *Server) handleStats(c *gin.Context) {
	info := s.monitor.Latest()
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
		"roomCount":   info.RoomCount,
		"playerCount": info.PlayerCount,
		"cpuUsage":    info.CPUUsage,
		"memUsage":    info.MemUsage,
		"loadScore":   info.Score(),
	}})
}

// handleWebSocket 升级连接并绑定会话
// 对局中的玩家视为重连，重绑推送通道并请求全量快照
func (s *Server) handleWebSocket(c *gin.Context) {
	userID, err := s.authenticate(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": err.Error()})
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("WebSocket 升级失败: user=%s, err=%v", userID, err)
		return
	}
	s.sessions.Attach(userID, ws)

	if room, exists := s.rooms.GetPlayerRoom(userID); exists && room.GetStatus() == game.RoomStatusPlaying {
		if err := s.rooms.UpdatePlayerConnector(userID, s.serverID); err != nil {
			log.Warn("重连重绑推送通道失败: user=%s, err=%v", userID, err)
		}
		room.NotifyEvent(&share.ReconnectEvent{
			GameMessageEvent: share.GameMessageEvent{UserID: userID},
		})
	}
}

// handleDevToken 为指定 userId 签发令牌，本地联调用
func (s *Server) handleDevToken(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "缺少 userId 参数"})
		return
	}
	token, err := conn.GenerateToken(userID, s.jwtConf.Secret, s.jwtConf.Expire)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{"token": token}})
}

// Run 阻塞运行 HTTP 服务
func (s *Server) Run(addr string) error {
	s.httpSrv = &http.Server{Addr: addr, Handler: s.engine}
	log.Info("HTTP 服务监听: %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

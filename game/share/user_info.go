package share

// UserInfo 和游戏逻辑隔离的用户信息
type UserInfo struct {
	UserID          string // 用户 ID
	ConnectorNodeID string // 推送通道标识（websocket 会话或 nats topic）
	IsOnline        bool   // 是否在线
	IsReady         bool   // 是否已准备
	SeatIndex       int
}

// NewUserInfo 创建玩家信息
func NewUserInfo(userID, connectorNodeID string) *UserInfo {
	return &UserInfo{
		UserID:          userID,
		ConnectorNodeID: connectorNodeID,
		IsOnline:        true,
	}
}

// SetOffline 设置玩家离线
func (pi *UserInfo) SetOffline() {
	pi.IsOnline = false
}

// SetOnline 设置玩家在线
func (pi *UserInfo) SetOnline(connectorNodeID string) {
	pi.IsOnline = true
	pi.ConnectorNodeID = connectorNodeID
}

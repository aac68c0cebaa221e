package share

// Tile 牌的传输表示
type Tile struct {
	Type int `json:"type"` // 牌的类型
	ID   int `json:"id"`   // 同种牌中的序号，红宝牌固定为 0
}

// GameEvent 游戏事件接口
// 所有入站操作统一入队，由引擎串行处理
type GameEvent interface {
	GetUserID() string
	GetEventType() string
}

type GameMessageEvent struct {
	UserID string `json:"userID"` // 用户 ID（用于查找座位）
}

func (e *GameMessageEvent) GetUserID() string {
	return e.UserID
}

// DropTileEvent 出牌
type DropTileEvent struct {
	GameMessageEvent
	Tile Tile `json:"tile"`
}

func (e *DropTileEvent) GetEventType() string { return "DropTile" }

// RiichiEvent 立直宣言（同时打出宣言牌）
type RiichiEvent struct {
	GameMessageEvent
	Tile Tile `json:"tile"`
}

func (e *RiichiEvent) GetEventType() string { return "Riichi" }

// ChiEvent 吃（Tiles 为手中用于组成顺子的两张牌）
type ChiEvent struct {
	GameMessageEvent
	Tiles []Tile `json:"tiles"`
}

func (e *ChiEvent) GetEventType() string { return "Chi" }

// PengTileEvent 碰
type PengTileEvent struct {
	GameMessageEvent
}

func (e *PengTileEvent) GetEventType() string { return "Peng" }

// GangEvent 大明杠
type GangEvent struct {
	GameMessageEvent
}

func (e *GangEvent) GetEventType() string { return "Gang" }

// AnkanEvent 暗杠（玩家自己回合主动杠牌）
type AnkanEvent struct {
	GameMessageEvent
	Tile Tile `json:"tile"` // 四张相同牌中的任意一张
}

func (e *AnkanEvent) GetEventType() string { return "Ankan" }

// KakanEvent 加杠（将碰升级为杠）
type KakanEvent struct {
	GameMessageEvent
	Tile Tile `json:"tile"` // 第四张相同的牌
}

func (e *KakanEvent) GetEventType() string { return "Kakan" }

// BeiEvent 拔北（将北风牌移出作为宝牌，摸岭上牌）
type BeiEvent struct {
	GameMessageEvent
}

func (e *BeiEvent) GetEventType() string { return "Bei" }

// TouchHuEvent 自摸和
type TouchHuEvent struct {
	GameMessageEvent
}

func (e *TouchHuEvent) GetEventType() string { return "TouchHu" }

// RongHuEvent 荣和
type RongHuEvent struct {
	GameMessageEvent
}

func (e *RongHuEvent) GetEventType() string { return "RongHu" }

// KskhEvent 九种九牌流局宣言
type KskhEvent struct {
	GameMessageEvent
}

func (e *KskhEvent) GetEventType() string { return "Kskh" }

// PassEvent 放弃当前可选操作（鸣牌/荣和窗口内有效）
type PassEvent struct {
	GameMessageEvent
}

func (e *PassEvent) GetEventType() string { return "Pass" }

// ReconnectEvent 断线重连，请求快照
type ReconnectEvent struct {
	GameMessageEvent
}

func (e *ReconnectEvent) GetEventType() string { return "Reconnect" }

package mahjong

import "time"

// TurnActionRequest 向出牌者征询本回合动作
// 玩家的应答通过 Engine.NotifyEvent 送回，迟到的应答由状态机丢弃
type TurnActionRequest struct {
	RoomID    string     `json:"roomId"`
	UserID    string     `json:"userId"`
	SeatIndex int        `json:"seatIndex"`
	DrawnTile *Tile      `json:"drawnTile,omitempty"`
	CanTsumo  bool       `json:"canTsumo"`
	CanBei    bool       `json:"canBei"`
	CanKyuushu bool      `json:"canKyuushu"`
	AnkanOptions []TileType `json:"ankanOptions,omitempty"`
	KakanOptions []TileType `json:"kakanOptions,omitempty"`
	RiichiCandidates []Tile `json:"riichiCandidates,omitempty"`
	Deadline  time.Time  `json:"deadline"`
}

// ClaimOffer 向一个座位征询对出牌/加杠的反应
type ClaimOffer struct {
	RoomID     string             `json:"roomId"`
	UserID     string             `json:"userId"`
	SeatIndex  int                `json:"seatIndex"`
	FromSeat   int                `json:"fromSeat"`
	Tile       Tile               `json:"tile"`
	Operations []*PlayerOperation `json:"operations"`
	Deadline   time.Time          `json:"deadline"`
}

// PlayerDecisionProvider 玩家决策征询通道
// 引擎只负责发出征询和取消，不阻塞等待应答
type PlayerDecisionProvider interface {
	RequestTurnAction(req *TurnActionRequest)
	OfferClaim(offer *ClaimOffer)
	// CancelPendingClaim 高优先级操作达成后撤回征询，迟到的应答作废
	CancelPendingClaim(roomID string, userID string)
}

// MatchEventSink 对局事件出口（推送给客户端或事件总线）
type MatchEventSink interface {
	Push(userIDs []string, route string, data []byte)
}

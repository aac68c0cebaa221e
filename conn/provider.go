package conn

import (
	"encoding/json"

	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/game/engines/mahjong"
)

// 征询类推送路由
const (
	RouteSolicitTurn   = "solicit.turnAction"
	RouteSolicitClaim  = "solicit.claim"
	RouteSolicitCancel = "solicit.cancel"
)

// WsDecisionProvider 通过推送通道向玩家征询决策
// 实现 mahjong.PlayerDecisionProvider，应答走正常的入站操作路由回流
type WsDecisionProvider struct {
	sink mahjong.MatchEventSink
}

func NewWsDecisionProvider(sink mahjong.MatchEventSink) *WsDecisionProvider {
	return &WsDecisionProvider{sink: sink}
}

func (p *WsDecisionProvider) RequestTurnAction(req *mahjong.TurnActionRequest) {
	data, err := json.Marshal(req)
	if err != nil {
		log.Error("序列化回合征询失败: user=%s, err=%v", req.UserID, err)
		return
	}
	p.sink.Push([]string{req.UserID}, RouteSolicitTurn, data)
}

func (p *WsDecisionProvider) OfferClaim(offer *mahjong.ClaimOffer) {
	data, err := json.Marshal(offer)
	if err != nil {
		log.Error("序列化鸣牌征询失败: user=%s, err=%v", offer.UserID, err)
		return
	}
	p.sink.Push([]string{offer.UserID}, RouteSolicitClaim, data)
}

type cancelClaimDTO struct {
	RoomID string `json:"roomId"`
}

// CancelPendingClaim 高优先级操作达成后撤回征询
func (p *WsDecisionProvider) CancelPendingClaim(roomID string, userID string) {
	data, err := json.Marshal(cancelClaimDTO{RoomID: roomID})
	if err != nil {
		log.Error("序列化撤回征询失败: user=%s, err=%v", userID, err)
		return
	}
	p.sink.Push([]string{userID}, RouteSolicitCancel, data)
}

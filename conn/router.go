package conn

import (
	"encoding/json"
	"fmt"

	"github.com/chushi0/jp-mahjong-server/game/share"
)

// 入站操作路由
const (
	ActionDropTile  = "action.dropTile"
	ActionRiichi    = "action.riichi"
	ActionChi       = "action.chi"
	ActionPeng      = "action.peng"
	ActionGang      = "action.gang"
	ActionAnkan     = "action.ankan"
	ActionKakan     = "action.kakan"
	ActionBei       = "action.bei"
	ActionTsumo     = "action.tsumo"
	ActionRon       = "action.ron"
	ActionKyuushu   = "action.kyuushu"
	ActionPass      = "action.pass"
	ActionReconnect = "action.reconnect"
)

// decodeGameEvent 把入站帧解码成游戏事件
// UserID 来自鉴权后的会话，覆盖客户端自带字段，防止伪造
func decodeGameEvent(userID, route string, data []byte) (share.GameEvent, error) {
	base := share.GameMessageEvent{UserID: userID}

	switch route {
	case ActionDropTile:
		event := &share.DropTileEvent{}
		if err := json.Unmarshal(data, event); err != nil {
			return nil, fmt.Errorf("解析出牌参数失败: %v", err)
		}
		event.GameMessageEvent = base
		return event, nil
	case ActionRiichi:
		event := &share.RiichiEvent{}
		if err := json.Unmarshal(data, event); err != nil {
			return nil, fmt.Errorf("解析立直参数失败: %v", err)
		}
		event.GameMessageEvent = base
		return event, nil
	case ActionChi:
		event := &share.ChiEvent{}
		if err := json.Unmarshal(data, event); err != nil {
			return nil, fmt.Errorf("解析吃牌参数失败: %v", err)
		}
		event.GameMessageEvent = base
		return event, nil
	case ActionPeng:
		return &share.PengTileEvent{GameMessageEvent: base}, nil
	case ActionGang:
		return &share.GangEvent{GameMessageEvent: base}, nil
	case ActionAnkan:
		event := &share.AnkanEvent{}
		if err := json.Unmarshal(data, event); err != nil {
			return nil, fmt.Errorf("解析暗杠参数失败: %v", err)
		}
		event.GameMessageEvent = base
		return event, nil
	case ActionKakan:
		event := &share.KakanEvent{}
		if err := json.Unmarshal(data, event); err != nil {
			return nil, fmt.Errorf("解析加杠参数失败: %v", err)
		}
		event.GameMessageEvent = base
		return event, nil
	case ActionBei:
		return &share.BeiEvent{GameMessageEvent: base}, nil
	case ActionTsumo:
		return &share.TouchHuEvent{GameMessageEvent: base}, nil
	case ActionRon:
		return &share.RongHuEvent{GameMessageEvent: base}, nil
	case ActionKyuushu:
		return &share.KskhEvent{GameMessageEvent: base}, nil
	case ActionPass:
		return &share.PassEvent{GameMessageEvent: base}, nil
	case ActionReconnect:
		return &share.ReconnectEvent{GameMessageEvent: base}, nil
	default:
		return nil, fmt.Errorf("未知操作路由: %s", route)
	}
}

package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord 局记录（每局一个文档）
// 只存事件流和结果，不存快照，回放时由事件重建
type RoundRecord struct {
	ID           primitive.ObjectID `bson:"_id"`
	GameRecordID primitive.ObjectID `bson:"game_record_id"`
	RoundNumber  int                `bson:"round_number"` // 1-4
	RoundWind    string             `bson:"round_wind"`
	DealerIndex  int                `bson:"dealer_index"`
	Honba        int                `bson:"honba"`
	Events       []RoundEvent       `bson:"events"`
	RoundResult  *RoundResult       `bson:"round_result"`
	StartTime    time.Time          `bson:"start_time"`
	EndTime      time.Time          `bson:"end_time"`
	Duration     int                `bson:"duration"` // 秒
	CreatedAt    time.Time          `bson:"created_at"`
}

type RoundEvent struct {
	Sequence  int            `bson:"sequence"` // 局内递增
	EventType string         `bson:"event_type"`
	Timestamp time.Time      `bson:"timestamp"`
	SeatIndex int            `bson:"seat_index"` // -1 表示系统事件
	Data      map[string]any `bson:"data"`
}

type RoundResult struct {
	EndType    string    `bson:"end_type"` // RoundEnd 常量
	Claims     []HuClaim `bson:"claims"`
	Delta      [4]int    `bson:"delta"`  // 点数变化（按座位索引）
	Points     [4]int    `bson:"points"` // 结算后的点数
	Reason     string    `bson:"reason"` // 流局原因
	NextDealer int       `bson:"next_dealer"`
}

type HuClaim struct {
	WinnerSeat int        `bson:"winner_seat"`
	LoserSeat  int        `bson:"loser_seat"` // 自摸时为 -1
	WinTile    Tile       `bson:"win_tile"`
	Han        int        `bson:"han"`
	Fu         int        `bson:"fu"`
	Yaku       []YakuItem `bson:"yaku"`
	Points     int        `bson:"points"`
}

type YakuItem struct {
	Name string `bson:"name"`
	Fan  int    `bson:"fan"` // 役满为负的倍数
}

// Tile 牌的存储格式
type Tile struct {
	Type int `bson:"type"`
	ID   int `bson:"id"`
}

func NewRoundRecord(gameRecordID primitive.ObjectID, roundNumber int, roundWind string, dealerIndex, honba int) *RoundRecord {
	return &RoundRecord{
		ID:           primitive.NewObjectID(),
		GameRecordID: gameRecordID,
		RoundNumber:  roundNumber,
		RoundWind:    roundWind,
		DealerIndex:  dealerIndex,
		Honba:        honba,
		Events:       make([]RoundEvent, 0, 100),
		StartTime:    time.Now(),
		CreatedAt:    time.Now(),
	}
}

func (rr *RoundRecord) AddEvent(eventType string, seatIndex int, data map[string]any) {
	rr.Events = append(rr.Events, RoundEvent{
		Sequence:  len(rr.Events),
		EventType: eventType,
		Timestamp: time.Now(),
		SeatIndex: seatIndex,
		Data:      data,
	})
}

// CompleteRound 设置回合结果
func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.EndTime = time.Now()
	rr.Duration = int(rr.EndTime.Sub(rr.StartTime).Seconds())
	rr.RoundResult = result
}

// 事件类型常量
const (
	EventTypeRoundStart  = "round_start"
	EventTypeDrawTile    = "draw_tile"
	EventTypeDiscardTile = "discard_tile"
	EventTypeChi         = "chi"
	EventTypePeng        = "peng"
	EventTypeGang        = "gang" // 大明杠
	EventTypeAnkan       = "ankan"
	EventTypeKakan       = "kakan"
	EventTypeBei         = "bei" // 拔北
	EventTypeRiichi      = "riichi"
	EventTypeRon         = "ron"
	EventTypeTsumo       = "tsumo"
	EventTypeWinResult   = "win_result" // 番符与点数
	EventTypeRoundEnd    = "round_end"
)

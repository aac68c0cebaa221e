package mahjong

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/core/domain/entity"
	"github.com/chushi0/jp-mahjong-server/core/domain/repository"
	"github.com/chushi0/jp-mahjong-server/game/share"
)

// GamePersister 对局记录收集器
// 对局过程中在内存中累积事件流，终局后一次性异步落库
type GamePersister struct {
	repo         repository.GameRecordRepository
	gameRecord   *entity.GameRecord
	rounds       []*entity.RoundRecord
	currentRound *entity.RoundRecord
	eventMu      sync.Mutex
	closed       bool
}

func NewGamePersister(repo repository.GameRecordRepository, roomID string, userMap map[string]*share.UserInfo) *GamePersister {
	players := make([]entity.PlayerInfo, 0, len(userMap))
	for userID, userInfo := range userMap {
		players = append(players, entity.PlayerInfo{
			UserID:    userID,
			SeatIndex: userInfo.SeatIndex,
		})
	}
	return &GamePersister{
		repo:       repo,
		gameRecord: entity.NewGameRecord(roomID, "riichi_mahjong_4p", players),
		rounds:     make([]*entity.RoundRecord, 0, 8),
	}
}

func (gp *GamePersister) GetGameRecordID() primitive.ObjectID {
	return gp.gameRecord.ID
}

func tileDoc(t share.Tile) map[string]any {
	return map[string]any{"type": t.Type, "id": t.ID}
}

func tilesDoc(tiles []share.Tile) []map[string]any {
	docs := make([]map[string]any, len(tiles))
	for i, t := range tiles {
		docs[i] = tileDoc(t)
	}
	return docs
}

// addEvent 带锁写入当前局的事件流
func (gp *GamePersister) addEvent(eventType string, seatIndex int, data map[string]any) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}
	gp.currentRound.AddEvent(eventType, seatIndex, data)
}

// StartRound 开始记录新的一局
func (gp *GamePersister) StartRound(roundNumber int, roundWind string, dealerIndex, honba int) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed {
		return
	}

	gp.currentRound = entity.NewRoundRecord(gp.gameRecord.ID, roundNumber, roundWind, dealerIndex, honba)
	gp.rounds = append(gp.rounds, gp.currentRound)
	gp.currentRound.AddEvent(entity.EventTypeRoundStart, -1, map[string]any{
		"current_turn": dealerIndex,
	})
}

func (gp *GamePersister) RecordDrawTile(seatIndex int, tile share.Tile) {
	gp.addEvent(entity.EventTypeDrawTile, seatIndex, map[string]any{"tile": tileDoc(tile)})
}

func (gp *GamePersister) RecordDiscardTile(seatIndex int, tile share.Tile) {
	gp.addEvent(entity.EventTypeDiscardTile, seatIndex, map[string]any{"tile": tileDoc(tile)})
}

func (gp *GamePersister) RecordChi(seatIndex, fromSeat int, tiles []share.Tile) {
	gp.addEvent(entity.EventTypeChi, seatIndex, map[string]any{
		"from_seat": fromSeat,
		"tiles":     tilesDoc(tiles),
	})
}

func (gp *GamePersister) RecordPeng(seatIndex, fromSeat int, tiles []share.Tile) {
	gp.addEvent(entity.EventTypePeng, seatIndex, map[string]any{
		"from_seat": fromSeat,
		"tiles":     tilesDoc(tiles),
	})
}

func (gp *GamePersister) RecordGang(seatIndex, fromSeat int, tiles []share.Tile) {
	gp.addEvent(entity.EventTypeGang, seatIndex, map[string]any{
		"from_seat": fromSeat,
		"tiles":     tilesDoc(tiles),
	})
}

func (gp *GamePersister) RecordAnkan(seatIndex int, tiles []share.Tile) {
	gp.addEvent(entity.EventTypeAnkan, seatIndex, map[string]any{"tiles": tilesDoc(tiles)})
}

func (gp *GamePersister) RecordKakan(seatIndex, fromSeat int, tiles []share.Tile) {
	gp.addEvent(entity.EventTypeKakan, seatIndex, map[string]any{
		"from_seat": fromSeat,
		"tiles":     tilesDoc(tiles),
	})
}

func (gp *GamePersister) RecordBei(seatIndex int, tile share.Tile) {
	gp.addEvent(entity.EventTypeBei, seatIndex, map[string]any{"tile": tileDoc(tile)})
}

func (gp *GamePersister) RecordRiichi(seatIndex int) {
	gp.addEvent(entity.EventTypeRiichi, seatIndex, map[string]any{})
}

func (gp *GamePersister) RecordRon(winnerSeat, loserSeat int, winTile share.Tile) {
	gp.addEvent(entity.EventTypeRon, winnerSeat, map[string]any{
		"loser_seat": loserSeat,
		"win_tile":   tileDoc(winTile),
	})
}

func (gp *GamePersister) RecordTsumo(winnerSeat int, winTile share.Tile) {
	gp.addEvent(entity.EventTypeTsumo, winnerSeat, map[string]any{
		"win_tile": tileDoc(winTile),
	})
}

// RecordWinResult 记录番符与最终点数
func (gp *GamePersister) RecordWinResult(seatIndex, han, fu, points int) {
	gp.addEvent(entity.EventTypeWinResult, seatIndex, map[string]any{
		"han":    han,
		"fu":     fu,
		"points": points,
	})
}

// CompleteRound 落盘当前局的结果
func (gp *GamePersister) CompleteRound(endType string, claims []HuClaimDTO, delta [4]int, points [4]int, reason string, nextDealer int) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}

	huClaims := make([]entity.HuClaim, 0, len(claims))
	for _, c := range claims {
		yaku := make([]entity.YakuItem, 0, len(c.Yaku))
		for _, y := range c.Yaku {
			yaku = append(yaku, entity.YakuItem{Name: y.Name, Fan: y.Fan})
		}
		huClaims = append(huClaims, entity.HuClaim{
			WinnerSeat: c.WinnerSeat,
			LoserSeat:  c.LoserSeat,
			WinTile:    entity.Tile{Type: int(c.WinTile.Type), ID: c.WinTile.ID},
			Han:        c.Han,
			Fu:         c.Fu,
			Yaku:       yaku,
			Points:     c.Points,
		})
	}

	gp.currentRound.CompleteRound(&entity.RoundResult{
		EndType:    endType,
		Claims:     huClaims,
		Delta:      delta,
		Points:     points,
		Reason:     reason,
		NextDealer: nextDealer,
	})
	gp.currentRound.AddEvent(entity.EventTypeRoundEnd, -1, map[string]any{})
}

// FinalizeGame 终局后异步写入数据库
func (gp *GamePersister) FinalizeGame(finalRankings []PlayerRankingDTO, finalPoints [4]int) {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return
	}
	gp.closed = true
	rounds := make([]*entity.RoundRecord, len(gp.rounds))
	copy(rounds, gp.rounds)
	gp.eventMu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rankings := make([]entity.PlayerRanking, 0, len(finalRankings))
		for _, r := range finalRankings {
			rankings = append(rankings, entity.PlayerRanking{
				SeatIndex: r.SeatIndex,
				UserID:    r.UserID,
				Points:    r.Points,
				Rank:      r.Rank,
			})
		}
		gp.gameRecord.CompleteGame(&entity.GameFinalResult{
			Rankings: rankings,
			Points:   finalPoints,
		})

		if err := gp.repo.SaveGameRecord(ctx, gp.gameRecord); err != nil {
			log.Error("保存对局记录失败: %v", err)
			return
		}
		if err := gp.repo.SaveRoundRecords(ctx, rounds); err != nil {
			log.Error("批量保存局记录失败: %v", err)
			return
		}
		log.Info("对局记录保存成功: gameRecordID=%s, rounds=%d", gp.gameRecord.ID.Hex(), len(rounds))
	}()
}

// SaveCurrentRound 中途保存当前局（正常终局不需要）
func (gp *GamePersister) SaveCurrentRound() error {
	gp.eventMu.Lock()
	round := gp.currentRound
	closed := gp.closed
	gp.eventMu.Unlock()
	if closed || round == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return gp.repo.SaveRoundRecord(ctx, round)
}

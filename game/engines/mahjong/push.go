package mahjong

import (
	"encoding/json"

	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/game/share"
)

// 客户端路由
const (
	RouteRoundStart  = "gameplay.roundStart"
	RouteDraw        = "gameplay.draw"
	RouteDiscard     = "gameplay.discard"
	RouteRiichi      = "gameplay.riichi"
	RouteChi         = "gameplay.chi"
	RoutePeng        = "gameplay.peng"
	RouteGang        = "gameplay.gang"
	RouteAnkan       = "gameplay.ankan"
	RouteKakan       = "gameplay.kakan"
	RouteBei         = "gameplay.bei"
	RouteDoraReveal  = "gameplay.doraReveal"
	RouteRon         = "gameplay.ron"
	RouteTsumo       = "gameplay.tsumo"
	RouteRoundEnd    = "gameplay.roundEnd"
	RouteGameEnd     = "gameplay.gameEnd"
	RouteStateUpdate = "gameplay.stateUpdate"
)

// allUserIDs 收集在座玩家
func (eg *RiichiMahjong4p) allUserIDs() []string {
	userIDs := make([]string, 0, 4)
	for _, player := range eg.Players {
		if player != nil && player.UserID != "" {
			userIDs = append(userIDs, player.UserID)
		}
	}
	return userIDs
}

func (eg *RiichiMahjong4p) pushJSON(userIDs []string, route string, v any) {
	if eg.Sink == nil || len(userIDs) == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("推送序列化失败: route=%s, err=%v", route, err)
		return
	}
	eg.Sink.Push(userIDs, route, data)
}

// broadcastRoundStart 推送回合开始，每个玩家只看见自己的手牌
func (eg *RiichiMahjong4p) broadcastRoundStart() {
	situationDTO := eg.situationDTO()
	doraIndicators := eg.DeckManager.Wang().DoraIndicators

	for _, player := range eg.Players {
		if player == nil || player.UserID == "" {
			continue
		}
		roundStart := RoundStartDTO{
			DoraIndicators: doraIndicators,
			Situation:      situationDTO,
			HandTiles:      make([]Tile, len(player.Tiles)),
			CurrentTurn:    eg.Situation.DealerIndex,
		}
		copy(roundStart.HandTiles, player.Tiles)
		eg.pushJSON([]string{player.UserID}, RouteRoundStart, roundStart)
	}
	log.Info("broadcastRoundStart: %s%d局 本场%d", eg.Situation.RoundWind, eg.Situation.RoundNumber, eg.Situation.Honba)
}

// pushDrawTile 推送摸牌，仅本人可见
func (eg *RiichiMahjong4p) pushDrawTile(seatIndex int, tile Tile) {
	player := eg.Players[seatIndex]
	if player == nil || player.UserID == "" {
		return
	}
	if eg.Persister != nil {
		eg.Persister.RecordDrawTile(seatIndex, toShareTile(tile))
	}
	eg.pushJSON([]string{player.UserID}, RouteDraw, DrawTileDTO{Tile: tile})
}

// broadcastDiscard 广播出牌
func (eg *RiichiMahjong4p) broadcastDiscard(seatIndex int, drop Drop) {
	if eg.Persister != nil {
		eg.Persister.RecordDiscardTile(seatIndex, toShareTile(drop.Tile))
	}
	eg.pushJSON(eg.allUserIDs(), RouteDiscard, DiscardTileDTO{
		SeatIndex: seatIndex,
		Tile:      drop.Tile,
		Riichi:    drop.Status == DropRiichi,
		Moqie:     drop.Moqie,
	})
}

// broadcastRiichi 广播立直成立（供托已扣）
func (eg *RiichiMahjong4p) broadcastRiichi(seatIndex int, double bool) {
	if eg.Persister != nil {
		eg.Persister.RecordRiichi(seatIndex)
	}
	eg.pushJSON(eg.allUserIDs(), RouteRiichi, RiichiDTO{SeatIndex: seatIndex, Double: double})
	log.Info("玩家 %d 立直成立, double=%v", seatIndex, double)
}

// broadcastMeldAction 广播吃、碰、明杠
func (eg *RiichiMahjong4p) broadcastMeldAction(actionType string, seatIndex, fromSeat int, tiles []Tile) {
	if eg.Persister != nil {
		shareTiles := toShareTiles(tiles)
		switch actionType {
		case OpChi:
			eg.Persister.RecordChi(seatIndex, fromSeat, shareTiles)
		case OpPeng:
			eg.Persister.RecordPeng(seatIndex, fromSeat, shareTiles)
		case OpGang:
			eg.Persister.RecordGang(seatIndex, fromSeat, shareTiles)
		}
	}

	route := RouteChi
	switch actionType {
	case OpPeng:
		route = RoutePeng
	case OpGang:
		route = RouteGang
	}
	eg.pushJSON(eg.allUserIDs(), route, MeldActionDTO{
		ActionType: actionType,
		SeatIndex:  seatIndex,
		FromSeat:   fromSeat,
		Tiles:      tiles,
	})
}

// broadcastAnkan 广播暗杠
func (eg *RiichiMahjong4p) broadcastAnkan(seatIndex int, tiles []Tile) {
	if eg.Persister != nil {
		eg.Persister.RecordAnkan(seatIndex, toShareTiles(tiles))
	}
	eg.pushJSON(eg.allUserIDs(), RouteAnkan, MeldActionDTO{
		ActionType: "ANKAN",
		SeatIndex:  seatIndex,
		FromSeat:   -1,
		Tiles:      tiles,
	})
}

// broadcastKakan 广播加杠宣言
func (eg *RiichiMahjong4p) broadcastKakan(seatIndex, fromSeat int, tiles []Tile) {
	if eg.Persister != nil {
		eg.Persister.RecordKakan(seatIndex, fromSeat, toShareTiles(tiles))
	}
	eg.pushJSON(eg.allUserIDs(), RouteKakan, MeldActionDTO{
		ActionType: "KAKAN",
		SeatIndex:  seatIndex,
		FromSeat:   fromSeat,
		Tiles:      tiles,
	})
}

// broadcastBei 广播拔北
func (eg *RiichiMahjong4p) broadcastBei(seatIndex int, tile Tile) {
	if eg.Persister != nil {
		eg.Persister.RecordBei(seatIndex, toShareTile(tile))
	}
	eg.pushJSON(eg.allUserIDs(), RouteBei, BeiDTO{SeatIndex: seatIndex, Tile: tile})
}

// broadcastDoraReveal 广播新翻开的宝牌指示牌
func (eg *RiichiMahjong4p) broadcastDoraReveal(indicator Tile) {
	eg.pushJSON(eg.allUserIDs(), RouteDoraReveal, DoraRevealDTO{
		Indicator: indicator,
		Total:     len(eg.DeckManager.Wang().DoraIndicators),
	})
}

// broadcastRon 广播荣和
func (eg *RiichiMahjong4p) broadcastRon(winnerSeat, loserSeat int, winTile Tile) {
	if eg.Persister != nil {
		eg.Persister.RecordRon(winnerSeat, loserSeat, toShareTile(winTile))
	}
	eg.pushJSON(eg.allUserIDs(), RouteRon, RonDTO{
		WinnerSeat: winnerSeat,
		LoserSeat:  loserSeat,
		WinTile:    winTile,
	})
}

// broadcastTsumo 广播自摸
func (eg *RiichiMahjong4p) broadcastTsumo(winnerSeat int, winTile Tile) {
	if eg.Persister != nil {
		eg.Persister.RecordTsumo(winnerSeat, toShareTile(winTile))
	}
	eg.pushJSON(eg.allUserIDs(), RouteTsumo, TsumoDTO{WinnerSeat: winnerSeat, WinTile: winTile})
}

// broadcastRoundEnd 广播回合结束，流局与和牌都走这里
func (eg *RiichiMahjong4p) broadcastRoundEnd(endType string, claims []HuClaimDTO, delta [4]int, reason string, nextDealer int) {
	points := [4]int{}
	var hands [4][]Tile
	for i := 0; i < 4; i++ {
		if eg.Players[i] == nil {
			continue
		}
		points[i] = eg.Players[i].Points
		if eg.Players[i].ShowHand {
			hands[i] = eg.Players[i].Tiles
		}
	}

	if eg.Persister != nil {
		eg.Persister.CompleteRound(endType, claims, delta, points, reason, nextDealer)
	}

	eg.pushJSON(eg.allUserIDs(), RouteRoundEnd, RoundEndDTO{
		EndType:           endType,
		Claims:            claims,
		Delta:             delta,
		Points:            points,
		Reason:            reason,
		NextDealer:        nextDealer,
		RevealedHands:     hands,
		UraDoraIndicators: eg.revealedUraDora(),
	})
	log.Info("broadcastRoundEnd: 类型=%s, delta=%v", endType, delta)
}

// revealedUraDora 只有立直家和牌时才公开里宝牌指示牌
func (eg *RiichiMahjong4p) revealedUraDora() []Tile {
	if !eg.uraRevealed {
		return nil
	}
	return eg.DeckManager.Wang().UraDoraIndicators
}

// broadcastGameEnd 广播游戏结束与最终排名
func (eg *RiichiMahjong4p) broadcastGameEnd() {
	type seatPoints struct {
		seatIndex int
		points    int
		userID    string
	}
	playerList := make([]seatPoints, 0, 4)
	finalPoints := [4]int{}
	for i := 0; i < 4; i++ {
		if eg.Players[i] == nil {
			continue
		}
		finalPoints[i] = eg.Players[i].Points
		playerList = append(playerList, seatPoints{i, eg.Players[i].Points, eg.Players[i].UserID})
	}

	// 点数相同时起家方位靠前者名次高
	for i := 0; i < len(playerList)-1; i++ {
		for j := i + 1; j < len(playerList); j++ {
			if playerList[i].points < playerList[j].points {
				playerList[i], playerList[j] = playerList[j], playerList[i]
			}
		}
	}

	rankings := [4]*PlayerRankingDTO{}
	finalRankings := make([]PlayerRankingDTO, 0, 4)
	for rank, p := range playerList {
		ranking := PlayerRankingDTO{
			SeatIndex: p.seatIndex,
			UserID:    p.userID,
			Points:    p.points,
			Rank:      rank + 1,
		}
		rankings[p.seatIndex] = &ranking
		finalRankings = append(finalRankings, ranking)
	}

	if eg.Persister != nil {
		eg.Persister.FinalizeGame(finalRankings, finalPoints)
	}

	eg.pushJSON(eg.allUserIDs(), RouteGameEnd, GameEndDTO{FinalRanking: rankings})
	log.Info("broadcastGameEnd: ranking=%v", finalRankings)
}

// pushStateSnapshot 断线重连时下发该玩家可见的全量快照
func (eg *RiichiMahjong4p) pushStateSnapshot(seatIndex int) {
	player := eg.Players[seatIndex]
	if player == nil || player.UserID == "" {
		return
	}

	snapshot := GameStateUpdateDTO{
		Situation:   eg.situationDTO(),
		CurrentTurn: eg.TurnManager.GetCurrentPlayer(),
		TurnState:   turnStateName(eg.TurnManager.GetState()),
		HandTiles:   player.Tiles,
	}
	for i := 0; i < 4; i++ {
		if eg.Players[i] == nil {
			continue
		}
		snapshot.Points[i] = eg.Players[i].Points
		snapshot.Seats[i] = SeatSnapshotDTO{
			DiscardPile: eg.Players[i].DiscardPile,
			Melds:       eg.Players[i].Melds,
			BeiTiles:    eg.Players[i].BeiTiles,
			Riichi:      eg.Players[i].RiichiType != RiichiNone,
		}
	}
	snapshot.DoraIndicators = eg.DeckManager.Wang().DoraIndicators

	eg.pushJSON([]string{player.UserID}, RouteStateUpdate, snapshot)
}

func (eg *RiichiMahjong4p) situationDTO() SituationDTO {
	return SituationDTO{
		DealerIndex:  eg.Situation.DealerIndex,
		RoundWind:    eg.Situation.RoundWind.String(),
		RoundNumber:  eg.Situation.RoundNumber,
		Honba:        eg.Situation.Honba,
		RiichiSticks: eg.Situation.RiichiSticks,
	}
}

func turnStateName(state TurnState) string {
	switch state {
	case TurnStateWaitMain:
		return "waitMain"
	case TurnStateSelecting:
		return "selecting"
	case TurnStateWaitReactions:
		return "waitReactions"
	case TurnStateApplyOperation:
		return "applyOperation"
	default:
		return "idle"
	}
}

// huClaimDTO 把结算结果转成推送格式
func huClaimDTO(claim HuClaim) HuClaimDTO {
	dto := HuClaimDTO{
		WinnerSeat: claim.WinnerSeat,
		LoserSeat:  -1,
		WinTile:    claim.WinTile,
	}
	if claim.HasLoser {
		dto.LoserSeat = claim.LoserSeat
	}
	if claim.Result != nil {
		dto.Han = claim.Result.Fan
		dto.Fu = claim.Result.Fu
		for _, e := range claim.Result.Yaku {
			dto.Yaku = append(dto.Yaku, YakuEntryDTO{Name: e.Yaku.String(), Fan: e.Fan})
		}
	}
	if claim.Points != nil {
		dto.Points = claim.Points.Total
	}
	return dto
}

func toShareTile(t Tile) share.Tile {
	return share.Tile{Type: int(t.Type), ID: t.ID}
}

func toShareTiles(tiles []Tile) []share.Tile {
	result := make([]share.Tile, len(tiles))
	for i, t := range tiles {
		result[i] = toShareTile(t)
	}
	return result
}

// ==================== 推送数据结构 ====================

type RoundStartDTO struct {
	DoraIndicators []Tile       `json:"doraIndicators"`
	Situation      SituationDTO `json:"situation"`
	HandTiles      []Tile       `json:"handTiles"`
	CurrentTurn    int          `json:"currentTurn"`
}

type SituationDTO struct {
	DealerIndex  int    `json:"dealerIndex"`
	RoundWind    string `json:"roundWind"`
	RoundNumber  int    `json:"roundNumber"`
	Honba        int    `json:"honba"`
	RiichiSticks int    `json:"riichiSticks"`
}

type DrawTileDTO struct {
	Tile Tile `json:"tile"`
}

type DiscardTileDTO struct {
	SeatIndex int  `json:"seatIndex"`
	Tile      Tile `json:"tile"`
	Riichi    bool `json:"riichi"` // 立直宣言牌（横放）
	Moqie     bool `json:"moqie"`
}

type RiichiDTO struct {
	SeatIndex int  `json:"seatIndex"`
	Double    bool `json:"double"`
}

type MeldActionDTO struct {
	ActionType string `json:"actionType"`
	SeatIndex  int    `json:"seatIndex"`
	FromSeat   int    `json:"fromSeat"`
	Tiles      []Tile `json:"tiles"`
}

type BeiDTO struct {
	SeatIndex int  `json:"seatIndex"`
	Tile      Tile `json:"tile"`
}

type DoraRevealDTO struct {
	Indicator Tile `json:"indicator"`
	Total     int  `json:"total"`
}

type RonDTO struct {
	WinnerSeat int  `json:"winnerSeat"`
	LoserSeat  int  `json:"loserSeat"`
	WinTile    Tile `json:"winTile"`
}

type TsumoDTO struct {
	WinnerSeat int  `json:"winnerSeat"`
	WinTile    Tile `json:"winTile"`
}

type YakuEntryDTO struct {
	Name string `json:"name"`
	Fan  int    `json:"fan"`
}

type HuClaimDTO struct {
	WinnerSeat int            `json:"winnerSeat"`
	LoserSeat  int            `json:"loserSeat"`
	WinTile    Tile           `json:"winTile"`
	Han        int            `json:"han"`
	Fu         int            `json:"fu"`
	Yaku       []YakuEntryDTO `json:"yaku"`
	Points     int            `json:"points"`
}

type RoundEndDTO struct {
	EndType           string       `json:"endType"`
	Claims            []HuClaimDTO `json:"claims"`
	Delta             [4]int       `json:"delta"`
	Points            [4]int       `json:"points"`
	Reason            string       `json:"reason"`
	NextDealer        int          `json:"nextDealer"`
	RevealedHands     [4][]Tile    `json:"revealedHands"`
	UraDoraIndicators []Tile       `json:"uraDoraIndicators,omitempty"`
}

type GameEndDTO struct {
	FinalRanking [4]*PlayerRankingDTO `json:"finalRanking"`
}

type PlayerRankingDTO struct {
	SeatIndex int    `json:"seatIndex"`
	UserID    string `json:"userId"`
	Points    int    `json:"points"`
	Rank      int    `json:"rank"`
}

type SeatSnapshotDTO struct {
	DiscardPile []Drop `json:"discardPile"`
	Melds       []Meld `json:"melds"`
	BeiTiles    []Tile `json:"beiTiles"`
	Riichi      bool   `json:"riichi"`
}

type GameStateUpdateDTO struct {
	Situation      SituationDTO       `json:"situation"`
	CurrentTurn    int                `json:"currentTurn"`
	TurnState      string             `json:"turnState"`
	Points         [4]int             `json:"points"`
	HandTiles      []Tile             `json:"handTiles"`
	Seats          [4]SeatSnapshotDTO `json:"seats"`
	DoraIndicators []Tile             `json:"doraIndicators"`
}

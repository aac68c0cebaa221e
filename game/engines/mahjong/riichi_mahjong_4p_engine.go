package mahjong

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chushi0/jp-mahjong-server/common/config"
	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/core/domain/repository"
	"github.com/chushi0/jp-mahjong-server/game/engines"
	"github.com/chushi0/jp-mahjong-server/game/share"
)

const (
	UseRedFive               = true // 是否使用赤牌
	UseBei                   = true // 是否启用拔北宝牌
	DefaultMaxRoundTime      = 30   // 每回合最多分配的考虑时间（秒）
	DefaultRoundCompensation = 5    // 每回合补偿时间（秒）
	DefaultWaitStartTime     = 8 * time.Second
)

func toMahjongTile(t share.Tile) Tile {
	return Tile{Type: TileType(t.Type), ID: t.ID}
}

type DrawKind int

const (
	DrawNone    DrawKind = iota // 鸣牌后直接出牌，不摸牌
	DrawWall                    // 从牌山摸牌
	DrawRinshan                 // 杠、拔北后摸岭上牌
)

// LastDiscard 最近一张舍张，反应窗口的裁决对象
type LastDiscard struct {
	Seat   int
	Tile   Tile
	Source CardSource
	Valid  bool
}

// pendingKakan 抢杠窗口中的杠
// 加杠可被任意和牌抢，暗杠只能被国士无双抢
type pendingKakan struct {
	Seat      int
	Tile      Tile
	MeldIndex int
	IsAnkan   bool
}

// RiichiMahjong4p 日麻四人游戏引擎
// 所有格局状态只在 actor 协程中读写，入站操作经 NotifyEvent 串行化
type RiichiMahjong4p struct {
	State       engines.GameState
	Service     engines.RoomService
	Provider    PlayerDecisionProvider
	Sink        MatchEventSink
	Repo        repository.GameRecordRepository
	Conf        config.GameConf
	RoomID      string
	UserMap     map[string]*share.UserInfo
	Situation   *Situation
	Players     [4]*PlayerImage
	DeckManager *DeckManager
	TurnManager *TurnManager
	Searcher    *Searcher
	Persister   *GamePersister

	roundStartTimer *time.Timer
	lastDiscard     LastDiscard

	firstCycle    bool // 首巡且无任何鸣牌（天和、地和、两立直、九种九牌的窗口）
	cycleDiscards int  // 首巡已完成的出牌数
	firstWinds    []TileType
	beiEnabled    bool
	uraRevealed   bool
	drawSource      CardSource // 当前摸牌的来源（普通/海底/岭上）
	tempFuriten     [4]bool    // 同巡振听
	pendingRiichi   int        // 立直宣言待确认的座位，-1 表示无
	kakanPending    *pendingKakan
	deferredKanDora int  // 明杠、加杠的新宝牌延迟到下一张舍张后翻开
	allLastRenchan  bool // 刚结束的一局是 All Last 连庄

	gameEvents chan share.GameEvent
	gameDone   chan struct{}
	actorExit  chan struct{}
	closed     atomic.Bool

	Reactions map[int]*PlayerReaction
	closeOnce sync.Once
}

// NewRiichiMahjong4p 创建引擎原型，依赖在注册时注入，对局状态由 Clone + InitializeEngine 填充
func NewRiichiMahjong4p(service engines.RoomService, provider PlayerDecisionProvider, sink MatchEventSink, repo repository.GameRecordRepository, conf config.GameConf) *RiichiMahjong4p {
	return &RiichiMahjong4p{
		State:    engines.GameWaiting,
		Service:  service,
		Provider: provider,
		Sink:     sink,
		Repo:     repo,
		Conf:     conf,
		Situation: &Situation{
			DealerIndex:  0,
			Honba:        0,
			RoundWind:    WindEast,
			RoundNumber:  1,
			RiichiSticks: 0,
		},
		beiEnabled:    UseBei,
		pendingRiichi: -1,
		Reactions:     make(map[int]*PlayerReaction),
	}
}

// Clone 克隆引擎实例（原型模式），共享依赖，不共享对局状态
func (eg *RiichiMahjong4p) Clone() engines.Engine {
	return NewRiichiMahjong4p(eg.Service, eg.Provider, eg.Sink, eg.Repo, eg.Conf)
}

// InitializeEngine 初始化游戏引擎并启动对局
func (eg *RiichiMahjong4p) InitializeEngine(roomID string, userMap map[string]*share.UserInfo) error {
	if len(userMap) != 4 {
		return fmt.Errorf("立直麻将需要 4 名玩家，当前 %d 名", len(userMap))
	}
	eg.RoomID = roomID
	eg.UserMap = userMap

	eg.closed.Store(false)
	eg.gameEvents = make(chan share.GameEvent, 256)
	eg.gameDone = make(chan struct{})
	eg.actorExit = make(chan struct{})
	eg.Searcher = NewSearcher()
	eg.DeckManager = NewDeckManager(UseRedFive)

	tickers := [4]*PlayerTicker{}
	for _, userInfo := range userMap {
		seatIndex := userInfo.SeatIndex
		if seatIndex < 0 || seatIndex >= 4 || eg.Players[seatIndex] != nil {
			return fmt.Errorf("座位分配异常: user=%s, seat=%d", userInfo.UserID, seatIndex)
		}
		ticker := NewPlayerTicker(DefaultMaxRoundTime)
		ticker.SetOnTimeout(eg.makeTimeoutHandler(seatIndex))
		tickers[seatIndex] = ticker
		eg.Players[seatIndex] = NewPlayerImage(userInfo.UserID, seatIndex, eg.Conf.InitialPoints)
	}
	eg.TurnManager = NewTurnManager(tickers)
	eg.State = engines.GameWaiting

	if eg.Repo != nil {
		eg.Persister = NewGamePersister(eg.Repo, roomID, userMap)
	}

	eg.roundStartTimer = time.AfterFunc(DefaultWaitStartTime, func() {
		eg.State = engines.GameInProgress
		eg.NotifyEvent(&StartRoundEvent{})
	})
	go eg.actorLoop()
	return nil
}

func (eg *RiichiMahjong4p) actorLoop() {
	defer close(eg.actorExit)
	for {
		select {
		case <-eg.gameDone:
			return
		case event := <-eg.gameEvents:
			eg.processEvent(event)
		}
	}
}

// NotifyEvent 游戏事件入队，满时丢弃并告警
func (eg *RiichiMahjong4p) NotifyEvent(event share.GameEvent) {
	if event == nil || eg.closed.Load() {
		return
	}
	select {
	case <-eg.gameDone:
		return
	case eg.gameEvents <- event:
		return
	default:
		log.Warn("gameEvents 队列已满, eventType=%s", event.GetEventType())
		return
	}
}

func (eg *RiichiMahjong4p) processEvent(event share.GameEvent) {
	if event == nil {
		return
	}
	log.Debug("处理游戏事件: %s", event.GetEventType())

	switch e := event.(type) {
	case *StartRoundEvent:
		eg.handleStartRoundEvent()
	case *share.DropTileEvent:
		eg.handleDropTileEvent(e)
	case *share.RiichiEvent:
		eg.handleRiichiEvent(e)
	case *share.ChiEvent:
		eg.handleChiEvent(e)
	case *share.PengTileEvent:
		eg.handleClaimEvent(e.GetUserID(), OpPeng, nil)
	case *share.GangEvent:
		eg.handleClaimEvent(e.GetUserID(), OpGang, nil)
	case *share.RongHuEvent:
		eg.handleClaimEvent(e.GetUserID(), OpHu, nil)
	case *share.PassEvent:
		eg.handlePassEvent(e)
	case *share.AnkanEvent:
		eg.handleAnkanEvent(e)
	case *share.KakanEvent:
		eg.handleKakanEvent(e)
	case *share.BeiEvent:
		eg.handleBeiEvent(e)
	case *share.TouchHuEvent:
		eg.handleTouchHuEvent(e)
	case *share.KskhEvent:
		eg.handleKskhEvent(e)
	case *share.ReconnectEvent:
		eg.handleReconnectEvent(e)
	case *TimeoutEvent:
		eg.handleTimeoutEvent(e)
	case *AutoDiscardEvent:
		eg.handleAutoDiscardEvent(e)
	default:
		log.Warn("不支持的事件类型: %s", event.GetEventType())
	}
}

// ==================== 开局与回合推进 ====================

func (eg *RiichiMahjong4p) handleStartRoundEvent() {
	log.Info("新的一局开始: %s%d局 本场%d 供托%d", eg.Situation.RoundWind, eg.Situation.RoundNumber, eg.Situation.Honba, eg.Situation.RiichiSticks)

	for i := 0; i < 4; i++ {
		eg.Players[i].ResetRound()
	}
	eg.DeckManager.InitRound()
	eg.TurnManager.ResetRound(eg.Situation.DealerIndex, DefaultMaxRoundTime)

	eg.firstCycle = true
	eg.cycleDiscards = 0
	eg.firstWinds = eg.firstWinds[:0]
	eg.uraRevealed = false
	eg.tempFuriten = [4]bool{}
	eg.pendingRiichi = -1
	eg.kakanPending = nil
	eg.deferredKanDora = 0
	eg.lastDiscard.Valid = false
	eg.Reactions = make(map[int]*PlayerReaction)

	eg.distributeCard()

	if eg.Persister != nil {
		eg.Persister.StartRound(
			eg.Situation.RoundNumber,
			eg.Situation.RoundWind.String(),
			eg.Situation.DealerIndex,
			eg.Situation.Honba,
		)
	}
	eg.broadcastRoundStart()

	eg.DropTurn(eg.Situation.DealerIndex, DrawWall)
}

// distributeCard 配牌：每家 13 张，庄家的第 14 张由首个出牌回合摸入
func (eg *RiichiMahjong4p) distributeCard() {
	for r := 0; r < 13; r++ {
		for i := 0; i < 4; i++ {
			t, ok := eg.DeckManager.Deal()
			if !ok {
				eg.HappenDamageError("发牌失败: 牌山不足")
				return
			}
			eg.Players[i].AddTile(t)
		}
	}
	for i := 0; i < 4; i++ {
		eg.Players[i].SortTiles()
		eg.refreshTenpai(i)
	}
}

// DropTurn 进入一个座位的出牌回合
func (eg *RiichiMahjong4p) DropTurn(seatIndex int, draw DrawKind) {
	player := eg.Players[seatIndex]

	switch draw {
	case DrawWall:
		t, ok := eg.DeckManager.Draw()
		if !ok {
			eg.LeadExhaustiveDraw()
			return
		}
		player.DrawTile(t)
		if !eg.isRiichiLocked(seatIndex) {
			eg.tempFuriten[seatIndex] = false
		}
		if eg.DeckManager.Remain() == 0 {
			eg.drawSource = SourceHaitei
		} else {
			eg.drawSource = SourceNormal
		}
		eg.pushDrawTile(seatIndex, t)
	case DrawRinshan:
		t, ok := eg.DeckManager.DrawRinshan()
		if !ok {
			eg.HappenDamageError("岭上牌不足")
			return
		}
		player.DrawTile(t)
		eg.drawSource = SourceRinshan
		eg.pushDrawTile(seatIndex, t)
	case DrawNone:
		eg.drawSource = SourceNormal
	}

	if err := eg.TurnManager.EnterDropPhase(seatIndex, DefaultRoundCompensation, DefaultMaxRoundTime); err != nil {
		eg.HappenDamageError(fmt.Sprintf("进入出牌阶段失败: %v", err))
		return
	}

	req := eg.buildTurnActionRequest(seatIndex, draw)
	if eg.Provider != nil {
		eg.Provider.RequestTurnAction(req)
	}

	// 立直后无可选操作时延迟自动摸切
	if eg.isRiichiLocked(seatIndex) && !req.CanTsumo && len(req.AnkanOptions) == 0 {
		delay := time.Duration(eg.Conf.RiichiDelayMs) * time.Millisecond
		time.AfterFunc(delay, func() {
			eg.NotifyEvent(&AutoDiscardEvent{SeatIndex: seatIndex})
		})
	}
}

// isRiichiLocked 立直已成立（宣言牌已通过反应窗口）
func (eg *RiichiMahjong4p) isRiichiLocked(seatIndex int) bool {
	return eg.Players[seatIndex].RiichiType != RiichiNone && eg.pendingRiichi != seatIndex
}

func (eg *RiichiMahjong4p) buildTurnActionRequest(seatIndex int, draw DrawKind) *TurnActionRequest {
	player := eg.Players[seatIndex]
	req := &TurnActionRequest{
		RoomID:    eg.RoomID,
		UserID:    player.UserID,
		SeatIndex: seatIndex,
		DrawnTile: player.NewestTile,
		Deadline:  time.Now().Add(time.Duration(eg.Conf.TurnSeconds) * time.Second),
	}
	if draw != DrawNone {
		req.CanTsumo = eg.canTsumo(seatIndex, eg.drawSource)
		req.CanBei = eg.canBei(seatIndex)
		req.CanKyuushu = eg.canKyuushu(seatIndex)
		req.AnkanOptions = eg.ankanOptions(seatIndex)
		req.KakanOptions = eg.kakanOptions(seatIndex)
		req.RiichiCandidates = eg.riichiCandidates(seatIndex)
	}
	return req
}

// ==================== 出牌与立直 ====================

func (eg *RiichiMahjong4p) handleDropTileEvent(event *share.DropTileEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil {
		log.Warn("获取玩家座位失败: %v", err)
		return
	}
	if !eg.validateMainTurn(seatIndex) {
		return
	}
	tile := toMahjongTile(event.Tile)

	player := eg.Players[seatIndex]
	if !player.HasTile(tile) {
		log.Warn("玩家 %d 手中没有该牌: %v", seatIndex, tile)
		return
	}
	// 立直后只能打出刚摸到的那张
	if eg.isRiichiLocked(seatIndex) {
		if player.NewestTile == nil || player.NewestTile.Type != tile.Type || player.NewestTile.ID != tile.ID {
			log.Warn("玩家 %d 已立直，只能摸切", seatIndex)
			return
		}
	}

	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		log.Warn("出牌应答已超时处理: seat=%d", seatIndex)
		return
	}
	eg.performDiscard(seatIndex, tile, DropNormal)
}

func (eg *RiichiMahjong4p) handleRiichiEvent(event *share.RiichiEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil {
		log.Warn("获取玩家座位失败: %v", err)
		return
	}
	if !eg.validateMainTurn(seatIndex) {
		return
	}
	tile := toMahjongTile(event.Tile)

	candidates := eg.riichiCandidates(seatIndex)
	allowed := false
	for _, c := range candidates {
		if c.Type == tile.Type {
			allowed = true
			break
		}
	}
	if !allowed || !eg.Players[seatIndex].HasTile(tile) {
		log.Warn("玩家 %d 立直宣言不合法: tile=%v", seatIndex, tile)
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		log.Warn("立直应答已超时处理: seat=%d", seatIndex)
		return
	}

	player := eg.Players[seatIndex]
	if eg.firstCycle && len(player.DiscardPile) == 0 {
		player.RiichiType = RiichiDouble
	} else {
		player.RiichiType = RiichiNormal
	}
	eg.pendingRiichi = seatIndex

	eg.performDiscard(seatIndex, tile, DropRiichi)
}

// performDiscard 打出一张牌并进入反应窗口
func (eg *RiichiMahjong4p) performDiscard(seatIndex int, tile Tile, status DropStatus) {
	player := eg.Players[seatIndex]
	moqie := player.NewestTile != nil && player.NewestTile.Type == tile.Type && player.NewestTile.ID == tile.ID

	if !player.DiscardTile(tile, status, moqie) {
		log.Warn("玩家 %d 手中没有该牌: %v", seatIndex, tile)
		return
	}
	// 立直后的第二次出牌宣告一发结束
	if eg.isRiichiLocked(seatIndex) && status != DropRiichi {
		player.Ippatsu = false
	}
	eg.tempFuriten[seatIndex] = false

	if eg.firstCycle && eg.cycleDiscards < 4 {
		eg.firstWinds = append(eg.firstWinds, tile.Type)
	}

	source := SourceNormal
	if eg.DeckManager.IsHoutei() {
		source = SourceHoutei
	}
	eg.lastDiscard = LastDiscard{Seat: seatIndex, Tile: tile, Source: source, Valid: true}

	eg.broadcastDiscard(seatIndex, Drop{Tile: tile, Status: status, Moqie: moqie})

	// 明杠、加杠的新宝牌在杠后那张舍张打出时翻开
	for eg.deferredKanDora > 0 {
		eg.deferredKanDora--
		eg.revealKanDora()
	}

	eg.refreshTenpai(seatIndex)
	eg.waitReaction(seatIndex, source)
}

func (eg *RiichiMahjong4p) validateMainTurn(seatIndex int) bool {
	if eg.TurnManager.GetState() != TurnStateWaitMain {
		log.Warn("当前不在出牌阶段: state=%v", eg.TurnManager.GetState())
		return false
	}
	if seatIndex != eg.TurnManager.GetCurrentPlayer() {
		log.Warn("不是当前玩家的回合: current=%d, event=%d", eg.TurnManager.GetCurrentPlayer(), seatIndex)
		return false
	}
	return true
}

// ==================== 反应窗口 ====================

// waitReaction 出牌后收集各家可选操作并开启反应窗口
func (eg *RiichiMahjong4p) waitReaction(discarder int, source CardSource) {
	eg.TurnManager.EnterSelectingPhase()
	eg.Reactions = eg.calculateReactions(discarder, eg.lastDiscard.Tile, source)

	if len(eg.Reactions) == 0 {
		eg.settleDiscardPassed(discarder)
		return
	}
	eg.openClaimWindow(discarder, eg.lastDiscard.Tile)
}

// openClaimWindow 给有操作的座位下发征询并开计时
func (eg *RiichiMahjong4p) openClaimWindow(fromSeat int, tile Tile) {
	eg.TurnManager.EnterReactingPhase()
	deadline := time.Now().Add(time.Duration(eg.Conf.ClaimSeconds) * time.Second)

	for seatIndex, reaction := range eg.Reactions {
		if eg.Provider != nil {
			eg.Provider.OfferClaim(&ClaimOffer{
				RoomID:     eg.RoomID,
				UserID:     eg.Players[seatIndex].UserID,
				SeatIndex:  seatIndex,
				FromSeat:   fromSeat,
				Tile:       tile,
				Operations: reaction.Operations,
				Deadline:   deadline,
			})
		}
		ticker := eg.TurnManager.GetPlayerTicker(seatIndex)
		ticker.SetAvailable(eg.Conf.ClaimSeconds)
		if err := ticker.Start(eg.Conf.ClaimSeconds); err != nil {
			log.Error("启动反应计时失败 (座位 %d): %v", seatIndex, err)
		}
	}
}

// handleClaimEvent 反应窗口中的应答（碰、明杠、荣和）
func (eg *RiichiMahjong4p) handleClaimEvent(userID string, opType string, tiles []Tile) {
	if eg.TurnManager.GetState() != TurnStateWaitReactions {
		log.Warn("当前不在反应阶段, op=%s", opType)
		return
	}
	seatIndex, err := eg.getSeatIndex(userID)
	if err != nil {
		log.Warn("获取玩家座位失败: %v", err)
		return
	}
	reaction, exists := eg.Reactions[seatIndex]
	if !exists || reaction.Cancelled {
		log.Warn("玩家 %d 不在反应列表中或已被取消", seatIndex)
		return
	}

	var chosen *PlayerOperation
	for _, op := range reaction.Operations {
		if op.Type != opType {
			continue
		}
		if tiles != nil && !sameTiles(op.Tiles, tiles) {
			continue
		}
		chosen = op
		break
	}
	if chosen == nil {
		log.Warn("玩家 %d 没有 %s 操作", seatIndex, opType)
		return
	}
	eg.recordPlayerResponse(seatIndex, chosen)
}

func (eg *RiichiMahjong4p) handleChiEvent(event *share.ChiEvent) {
	tiles := make([]Tile, 0, len(event.Tiles))
	for _, t := range event.Tiles {
		tiles = append(tiles, toMahjongTile(t))
	}
	eg.handleClaimEvent(event.GetUserID(), OpChi, tiles)
}

func (eg *RiichiMahjong4p) handlePassEvent(event *share.PassEvent) {
	if eg.TurnManager.GetState() != TurnStateWaitReactions {
		return
	}
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil {
		return
	}
	if _, exists := eg.Reactions[seatIndex]; !exists {
		return
	}
	eg.recordPlayerResponse(seatIndex, &PlayerOperation{Type: OpSkip})
}

func sameTiles(a, b []Tile) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, t := range a {
		found := false
		for i, o := range b {
			if !used[i] && o.Type == t.Type && o.ID == t.ID {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// recordPlayerResponse 记录一个座位的应答
// 荣和应答会立即取消只剩低优先级操作的征询
func (eg *RiichiMahjong4p) recordPlayerResponse(seatIndex int, chosenOp *PlayerOperation) {
	reaction, exists := eg.Reactions[seatIndex]
	if !exists {
		return
	}
	if !reaction.Responded {
		ticker := eg.TurnManager.GetPlayerTicker(seatIndex)
		if !ticker.Stop() && ticker.GetState() != StateTimeout {
			log.Warn("recordPlayerResponse: 计时器状态异常, seat=%d", seatIndex)
		}
	}
	reaction.ChosenOp = chosenOp
	reaction.Responded = true
	log.Debug("玩家 %d 应答: %s", seatIndex, chosenOp.Type)

	if chosenOp.Type == OpHu {
		eg.cancelLowerClaims()
	}
	if eg.isReactionComplete() {
		eg.handleReactionComplete()
	}
}

// cancelLowerClaims 荣和达成后，没有荣和选项的征询立即作废
func (eg *RiichiMahjong4p) cancelLowerClaims() {
	for seatIndex, reaction := range eg.Reactions {
		if reaction.Responded || reaction.Cancelled {
			continue
		}
		hasHu := false
		for _, op := range reaction.Operations {
			if op.Type == OpHu {
				hasHu = true
				break
			}
		}
		if hasHu {
			continue
		}
		reaction.Cancelled = true
		reaction.Responded = true
		reaction.ChosenOp = &PlayerOperation{Type: OpSkip}
		eg.TurnManager.GetPlayerTicker(seatIndex).Stop()
		if eg.Provider != nil {
			eg.Provider.CancelPendingClaim(eg.RoomID, eg.Players[seatIndex].UserID)
		}
	}
}

func (eg *RiichiMahjong4p) isReactionComplete() bool {
	for _, reaction := range eg.Reactions {
		if !reaction.Responded {
			return false
		}
	}
	return true
}

// handleReactionComplete 所有应答收齐后裁决
// 优先级：荣和 > 杠/碰 > 吃
func (eg *RiichiMahjong4p) handleReactionComplete() {
	if eg.TurnManager.GetState() != TurnStateWaitReactions {
		eg.HappenDamageError(fmt.Sprintf("反应裁决状态机错误: state=%v", eg.TurnManager.GetState()))
		return
	}
	eg.TurnManager.EnterApplyingPhase()

	ronSeats := make([]int, 0, 3)
	for seatIndex, reaction := range eg.Reactions {
		if reaction.ChosenOp != nil && reaction.ChosenOp.Type == OpHu {
			ronSeats = append(ronSeats, seatIndex)
		}
	}

	if eg.kakanPending != nil {
		eg.resolveKakanWindow(ronSeats)
		return
	}

	if len(ronSeats) >= 3 {
		log.Info("一炮三响，途中流局")
		eg.LeadAbortDraw(RoundEndDraw3Ron, "三家和了")
		return
	}
	if len(ronSeats) > 0 {
		eg.LeadRonEnding(ronSeats, eg.lastDiscard.Tile, eg.lastDiscard.Seat, eg.lastDiscard.Source)
		return
	}

	action := eg.selectBestReaction()
	if action == nil {
		eg.settleDiscardPassed(eg.lastDiscard.Seat)
		return
	}
	eg.executeReaction(action)
}

type ReactionAction struct {
	Type       string
	PlayerSeat int
	Tiles      []Tile
}

func (eg *RiichiMahjong4p) selectBestReaction() *ReactionAction {
	for _, opType := range []string{OpGang, OpPeng, OpChi} {
		for seatIndex, reaction := range eg.Reactions {
			if reaction.ChosenOp != nil && reaction.ChosenOp.Type == opType {
				return &ReactionAction{
					Type:       opType,
					PlayerSeat: seatIndex,
					Tiles:      reaction.ChosenOp.Tiles,
				}
			}
		}
	}
	return nil
}

// settleDiscardPassed 舍张通过：立直成立、振听标记、途中流局检查，然后轮到下一家
func (eg *RiichiMahjong4p) settleDiscardPassed(discarder int) {
	eg.TurnManager.EnterApplyingPhase()
	eg.Reactions = make(map[int]*PlayerReaction)

	eg.markPassFuriten(discarder, eg.lastDiscard.Tile.Type)
	eg.confirmRiichi()

	if eg.firstCycle {
		eg.cycleDiscards++
		if eg.checkFourWindDraw() {
			eg.LeadAbortDraw(RoundEndDraw4Wind, "四风连打")
			return
		}
		if eg.cycleDiscards >= 4 {
			eg.firstCycle = false
		}
	}
	if eg.checkFourRiichiDraw() {
		eg.LeadAbortDraw(RoundEndDraw4Riichi, "四家立直")
		return
	}
	if eg.checkFourKanDraw() {
		eg.LeadAbortDraw(RoundEndDraw4Kan, "四杠散了")
		return
	}

	eg.lastDiscard.Valid = false
	nextPlayer := eg.TurnManager.NextTurn()
	eg.DropTurn(nextPlayer, DrawWall)
}

// markPassFuriten 见逃：听这张牌却没有荣和的座位进入振听
// 立直家的见逃是永久振听
func (eg *RiichiMahjong4p) markPassFuriten(discarder int, tileType TileType) {
	for i := 0; i < 4; i++ {
		if i == discarder {
			continue
		}
		player := eg.Players[i]
		if player == nil || !player.IsWaitingFor(tileType) {
			continue
		}
		if player.RiichiType != RiichiNone {
			player.Furiten = true
			player.PermanentFuriten = true
		} else {
			eg.tempFuriten[i] = true
		}
	}
}

// confirmRiichi 宣言牌通过反应窗口，供托入场，一发窗口开启
func (eg *RiichiMahjong4p) confirmRiichi() {
	if eg.pendingRiichi < 0 {
		return
	}
	seatIndex := eg.pendingRiichi
	eg.pendingRiichi = -1

	player := eg.Players[seatIndex]
	player.AddPoints(-1000)
	eg.Situation.RiichiSticks++
	player.Ippatsu = true
	eg.broadcastRiichi(seatIndex, player.RiichiType == RiichiDouble)
}

// annulRiichi 宣言牌被荣和，立直不成立，不扣供托
func (eg *RiichiMahjong4p) annulRiichi() {
	if eg.pendingRiichi < 0 {
		return
	}
	eg.Players[eg.pendingRiichi].RiichiType = RiichiNone
	eg.pendingRiichi = -1
}

func (eg *RiichiMahjong4p) checkFourWindDraw() bool {
	if eg.cycleDiscards != 4 || len(eg.firstWinds) != 4 {
		return false
	}
	first := eg.firstWinds[0]
	if !first.IsWind() {
		return false
	}
	for _, t := range eg.firstWinds[1:] {
		if t != first {
			return false
		}
	}
	return true
}

func (eg *RiichiMahjong4p) checkFourRiichiDraw() bool {
	for i := 0; i < 4; i++ {
		if eg.Players[i].RiichiType == RiichiNone {
			return false
		}
	}
	return true
}

// checkFourKanDraw 四杠且分属多家则流局，一家四杠（四杠子听牌）继续
func (eg *RiichiMahjong4p) checkFourKanDraw() bool {
	if eg.totalKanCount() < 4 {
		return false
	}
	holders := 0
	for i := 0; i < 4; i++ {
		if eg.Players[i].KanCount() > 0 {
			holders++
		}
	}
	return holders >= 2
}

// ==================== 鸣牌执行 ====================

// executeReaction 执行吃、碰、大明杠
func (eg *RiichiMahjong4p) executeReaction(action *ReactionAction) {
	if !eg.lastDiscard.Valid {
		eg.HappenDamageError("没有 lastDiscard，无法执行鸣牌")
		return
	}
	discarder := eg.lastDiscard.Seat
	called := eg.lastDiscard.Tile
	caller := eg.Players[action.PlayerSeat]

	for _, t := range action.Tiles {
		if !caller.RemoveTile(t) {
			eg.HappenDamageError(fmt.Sprintf("%s 找不到手牌: %v", action.Type, t))
			return
		}
	}
	eg.Players[discarder].MarkLastDropObtained()
	eg.markPassFuriten(discarder, called.Type)
	eg.confirmRiichi()
	eg.interruptCycle()

	meldTiles := append([]Tile{called}, action.Tiles...)
	eg.lastDiscard.Valid = false

	switch action.Type {
	case OpPeng:
		caller.Melds = append(caller.Melds, Meld{
			Type: MeldPeng, Tiles: meldTiles, From: discarder, CalledTile: called,
		})
		eg.broadcastMeldAction(OpPeng, action.PlayerSeat, discarder, meldTiles)
		eg.afterMeld(action.PlayerSeat)
		eg.DropTurn(action.PlayerSeat, DrawNone)
	case OpChi:
		chiStart := called.Type
		for _, t := range action.Tiles {
			if t.Type < chiStart {
				chiStart = t.Type
			}
		}
		caller.Melds = append(caller.Melds, Meld{
			Type: MeldChi, Tiles: meldTiles, From: discarder, CalledTile: called, ChiStart: chiStart,
		})
		eg.broadcastMeldAction(OpChi, action.PlayerSeat, discarder, meldTiles)
		eg.afterMeld(action.PlayerSeat)
		eg.DropTurn(action.PlayerSeat, DrawNone)
	case OpGang:
		caller.Melds = append(caller.Melds, Meld{
			Type: MeldMinkan, Tiles: meldTiles, From: discarder, CalledTile: called,
		})
		eg.broadcastMeldAction(OpGang, action.PlayerSeat, discarder, meldTiles)
		eg.afterMeld(action.PlayerSeat)
		eg.deferredKanDora++
		eg.DropTurn(action.PlayerSeat, DrawRinshan)
	default:
		eg.HappenDamageError(fmt.Sprintf("不支持的反应类型: %s", action.Type))
	}
}

// interruptCycle 任何鸣牌都会打断首巡
func (eg *RiichiMahjong4p) interruptCycle() {
	eg.firstCycle = false
}

// afterMeld 任何鸣牌都打断所有人的一发
func (eg *RiichiMahjong4p) afterMeld(callerSeat int) {
	for i := 0; i < 4; i++ {
		eg.Players[i].Ippatsu = false
	}
	eg.Reactions = make(map[int]*PlayerReaction)
	eg.refreshTenpai(callerSeat)
}

// revealKanDora 开杠后翻开新的宝牌指示牌
func (eg *RiichiMahjong4p) revealKanDora() {
	indicator, ok := eg.DeckManager.RevealDoraIndicator()
	if ok {
		eg.broadcastDoraReveal(indicator)
	}
}

// ==================== 自回合动作 ====================

func (eg *RiichiMahjong4p) handleAnkanEvent(event *share.AnkanEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil || !eg.validateMainTurn(seatIndex) {
		return
	}
	tile := toMahjongTile(event.Tile)

	allowed := false
	for _, t := range eg.ankanOptions(seatIndex) {
		if t == tile.Type {
			allowed = true
			break
		}
	}
	if !allowed {
		log.Warn("玩家 %d 暗杠不合法: %v", seatIndex, tile)
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		return
	}

	player := eg.Players[seatIndex]
	ankanTiles := make([]Tile, 0, 4)
	for i := 0; i < 4; i++ {
		t, ok := player.RemoveTileByType(tile.Type)
		if !ok {
			eg.HappenDamageError("暗杠移除牌数异常")
			return
		}
		ankanTiles = append(ankanTiles, t)
	}
	player.Melds = append(player.Melds, Meld{Type: MeldAnkan, Tiles: ankanTiles, From: seatIndex})

	eg.interruptCycle()
	eg.afterMeld(seatIndex)
	eg.broadcastAnkan(seatIndex, ankanTiles)
	// 暗杠的新宝牌立即翻开
	eg.revealKanDora()

	// 暗杠只能被国士无双抢
	reactions := eg.calculateAnkanRobReactions(seatIndex, ankanTiles[0])
	if len(reactions) > 0 {
		eg.TurnManager.EnterSelectingPhase()
		eg.Reactions = reactions
		eg.kakanPending = &pendingKakan{Seat: seatIndex, Tile: ankanTiles[0], IsAnkan: true}
		eg.openClaimWindow(seatIndex, ankanTiles[0])
		return
	}
	eg.DropTurn(seatIndex, DrawRinshan)
}

func (eg *RiichiMahjong4p) handleKakanEvent(event *share.KakanEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil || !eg.validateMainTurn(seatIndex) {
		return
	}
	tile := toMahjongTile(event.Tile)

	allowed := false
	for _, t := range eg.kakanOptions(seatIndex) {
		if t == tile.Type {
			allowed = true
			break
		}
	}
	if !allowed {
		log.Warn("玩家 %d 加杠不合法: %v", seatIndex, tile)
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		return
	}

	player := eg.Players[seatIndex]
	kakanTile, ok := player.RemoveTileByType(tile.Type)
	if !ok {
		eg.HappenDamageError("加杠找不到手牌")
		return
	}
	meldIndex := -1
	for i, m := range player.Melds {
		if m.Type == MeldPeng && m.Tiles[0].Type == tile.Type {
			meldIndex = i
			break
		}
	}
	if meldIndex == -1 {
		eg.HappenDamageError("加杠找不到对应的碰副露")
		return
	}

	meld := &player.Melds[meldIndex]
	meld.Type = MeldKakan
	meld.Tiles = append(meld.Tiles, kakanTile)
	eg.interruptCycle()
	eg.broadcastKakan(seatIndex, meld.From, meld.Tiles)

	// 抢杠窗口
	eg.TurnManager.EnterSelectingPhase()
	reactions := eg.calculateKakanReactions(seatIndex, kakanTile)
	if len(reactions) > 0 {
		eg.Reactions = reactions
		eg.kakanPending = &pendingKakan{Seat: seatIndex, Tile: kakanTile, MeldIndex: meldIndex}
		eg.openClaimWindow(seatIndex, kakanTile)
		return
	}
	eg.completeKakan(seatIndex)
}

// resolveKakanWindow 抢杠窗口裁决
func (eg *RiichiMahjong4p) resolveKakanWindow(ronSeats []int) {
	pending := eg.kakanPending
	eg.kakanPending = nil
	eg.Reactions = make(map[int]*PlayerReaction)

	if len(ronSeats) >= 3 {
		eg.LeadAbortDraw(RoundEndDraw3Ron, "三家和了")
		return
	}
	if len(ronSeats) > 0 {
		// 抢杠成立，那张牌归和牌者
		eg.LeadRonEnding(ronSeats, pending.Tile, pending.Seat, SourceRobKan)
		return
	}
	eg.markPassFuriten(pending.Seat, pending.Tile.Type)
	if pending.IsAnkan {
		eg.TurnManager.EnterApplyingPhase()
		eg.DropTurn(pending.Seat, DrawRinshan)
		return
	}
	eg.completeKakan(pending.Seat)
}

// completeKakan 无人抢杠，杠成立
// 四杠散了的判定延后到杠后那张舍张通过反应窗口之后
func (eg *RiichiMahjong4p) completeKakan(seatIndex int) {
	eg.afterMeld(seatIndex)
	eg.deferredKanDora++
	eg.DropTurn(seatIndex, DrawRinshan)
}

func (eg *RiichiMahjong4p) handleBeiEvent(event *share.BeiEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil || !eg.validateMainTurn(seatIndex) {
		return
	}
	if !eg.canBei(seatIndex) {
		log.Warn("玩家 %d 拔北不合法", seatIndex)
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		return
	}

	player := eg.Players[seatIndex]
	beiTile, ok := player.RemoveTileByType(North)
	if !ok {
		eg.HappenDamageError("拔北找不到北风牌")
		return
	}
	player.BeiTiles = append(player.BeiTiles, beiTile)

	eg.interruptCycle()
	eg.afterMeld(seatIndex)
	eg.broadcastBei(seatIndex, beiTile)
	eg.DropTurn(seatIndex, DrawRinshan)
}

func (eg *RiichiMahjong4p) handleTouchHuEvent(event *share.TouchHuEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil || !eg.validateMainTurn(seatIndex) {
		return
	}
	if !eg.canTsumo(seatIndex, eg.drawSource) {
		log.Warn("玩家 %d 自摸不成立", seatIndex)
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		return
	}
	player := eg.Players[seatIndex]
	winTile := *player.NewestTile
	eg.broadcastTsumo(seatIndex, winTile)
	eg.LeadTsumoEnding(seatIndex, winTile, eg.drawSource)
}

func (eg *RiichiMahjong4p) handleKskhEvent(event *share.KskhEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil || !eg.validateMainTurn(seatIndex) {
		return
	}
	if !eg.canKyuushu(seatIndex) {
		log.Warn("玩家 %d 九种九牌不成立", seatIndex)
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		return
	}
	eg.Players[seatIndex].ShowHand = true
	eg.LeadAbortDraw(RoundEndDrawKskh, "九种九牌")
}

func (eg *RiichiMahjong4p) handleReconnectEvent(event *share.ReconnectEvent) {
	seatIndex, err := eg.getSeatIndex(event.GetUserID())
	if err != nil {
		log.Warn("断线重连失败: %v", err)
		return
	}
	log.Info("断线重连: user=%s, seat=%d", event.GetUserID(), seatIndex)
	eg.pushStateSnapshot(seatIndex)
}

// ==================== 超时与托管 ====================

func (eg *RiichiMahjong4p) makeTimeoutHandler(seatIndex int) func() {
	return func() {
		eg.NotifyEvent(&TimeoutEvent{SeatIndex: seatIndex})
	}
}

func (eg *RiichiMahjong4p) handleTimeoutEvent(event *TimeoutEvent) {
	seatIndex := event.SeatIndex
	switch eg.TurnManager.GetState() {
	case TurnStateWaitMain:
		if seatIndex == eg.TurnManager.GetCurrentPlayer() {
			eg.autoDiscard(seatIndex)
		}
	case TurnStateWaitReactions:
		if reaction, exists := eg.Reactions[seatIndex]; exists && !reaction.Responded {
			eg.recordPlayerResponse(seatIndex, &PlayerOperation{Type: OpSkip})
		}
	}
}

func (eg *RiichiMahjong4p) handleAutoDiscardEvent(event *AutoDiscardEvent) {
	seatIndex := event.SeatIndex
	if eg.TurnManager.GetState() != TurnStateWaitMain || seatIndex != eg.TurnManager.GetCurrentPlayer() {
		return
	}
	if !eg.isRiichiLocked(seatIndex) {
		return
	}
	if !eg.TurnManager.GetPlayerTicker(seatIndex).Stop() {
		return
	}
	eg.doAutoDiscard(seatIndex)
}

// autoDiscard 超时托管：摸切（立直家同样摸切）
func (eg *RiichiMahjong4p) autoDiscard(seatIndex int) {
	log.Info("玩家 %d 出牌超时，自动摸切", seatIndex)
	eg.doAutoDiscard(seatIndex)
}

func (eg *RiichiMahjong4p) doAutoDiscard(seatIndex int) {
	player := eg.Players[seatIndex]
	if len(player.Tiles) == 0 {
		eg.HappenDamageError(fmt.Sprintf("玩家 %d 手牌为空，无法出牌", seatIndex))
		return
	}
	var tile Tile
	if player.NewestTile != nil {
		tile = *player.NewestTile
	} else {
		tile = player.Tiles[len(player.Tiles)-1]
	}
	eg.performDiscard(seatIndex, tile, DropNormal)
}

// ==================== 结算 ====================

// LeadRonEnding 荣和结算，支持一炮双响
// 头跳：离放铳者最近的和牌者独得本场与供托
func (eg *RiichiMahjong4p) LeadRonEnding(ronSeats []int, winTile Tile, loserSeat int, source CardSource) {
	eg.annulRiichi()
	orderRonSeats(ronSeats, loserSeat)

	var delta [4]int
	claimDTOs := make([]HuClaimDTO, 0, len(ronSeats))
	dealer := eg.Situation.DealerIndex
	dealerWin := false

	for i, seat := range ronSeats {
		player := eg.Players[seat]
		if player.RiichiType != RiichiNone {
			eg.uraRevealed = true
		}
		env := eg.buildWinEnv(seat, false, source)
		result := CheckWin(player, winTile, env)
		if result == nil {
			eg.HappenDamageError(fmt.Sprintf("荣和结算失败: seat=%d", seat))
			return
		}

		situ := *eg.Situation
		if i > 0 {
			situ.Honba = 0
			situ.RiichiSticks = 0
		}
		points := CalculatePoints(result.Fan, result.Fu, seat, true, loserSeat, &situ)
		for s := 0; s < 4; s++ {
			delta[s] += points.Payments[s]
		}

		player.ShowHand = true
		if seat == dealer {
			dealerWin = true
		}
		eg.broadcastRon(seat, loserSeat, winTile)
		claimDTOs = append(claimDTOs, huClaimDTO(HuClaim{
			WinnerSeat: seat, HasLoser: true, LoserSeat: loserSeat,
			WinTile: winTile, Result: result, Points: points,
		}))
		if eg.Persister != nil {
			eg.Persister.RecordWinResult(seat, result.Fan, result.Fu, points.Total)
		}
	}
	eg.Situation.RiichiSticks = 0
	eg.applyDelta(delta)

	nextDealer := eg.advanceRound(dealerWin, false)
	eg.broadcastRoundEnd(RoundEndRon, claimDTOs, delta, "", nextDealer)
	eg.finalizeRound()
}

// orderRonSeats 按照离放铳者的下家距离排序，头跳在前
func orderRonSeats(seats []int, loser int) {
	for i := 0; i < len(seats)-1; i++ {
		for j := i + 1; j < len(seats); j++ {
			if (seats[j]-loser+4)%4 < (seats[i]-loser+4)%4 {
				seats[i], seats[j] = seats[j], seats[i]
			}
		}
	}
}

// LeadTsumoEnding 自摸结算
func (eg *RiichiMahjong4p) LeadTsumoEnding(winnerSeat int, winTile Tile, source CardSource) {
	player := eg.Players[winnerSeat]
	if player.RiichiType != RiichiNone {
		eg.uraRevealed = true
	}
	env := eg.buildWinEnv(winnerSeat, true, source)
	result := CheckWin(player, winTile, env)
	if result == nil {
		eg.HappenDamageError(fmt.Sprintf("自摸结算失败: seat=%d", winnerSeat))
		return
	}

	points := CalculatePoints(result.Fan, result.Fu, winnerSeat, false, -1, eg.Situation)
	eg.Situation.RiichiSticks = 0
	player.ShowHand = true

	var delta [4]int
	copy(delta[:], points.Payments[:])

	if eg.Persister != nil {
		eg.Persister.RecordWinResult(winnerSeat, result.Fan, result.Fu, points.Total)
	}

	eg.applyDelta(delta)
	dealerWin := winnerSeat == eg.Situation.DealerIndex
	nextDealer := eg.advanceRound(dealerWin, false)

	claimDTO := huClaimDTO(HuClaim{
		WinnerSeat: winnerSeat, WinTile: winTile, Result: result, Points: points,
	})
	eg.broadcastRoundEnd(RoundEndTsumo, []HuClaimDTO{claimDTO}, delta, "", nextDealer)
	eg.finalizeRound()
}

// LeadExhaustiveDraw 荒牌流局：流局满贯优先，否则听牌费
func (eg *RiichiMahjong4p) LeadExhaustiveDraw() {
	eg.TurnManager.EnterApplyingPhase()

	var tenpai [4]bool
	for i := 0; i < 4; i++ {
		eg.refreshTenpai(i)
		tenpai[i] = len(eg.Players[i].Tenpai) > 0
		if tenpai[i] {
			eg.Players[i].ShowHand = true
		}
	}

	var delta [4]int
	reason := "荒牌流局"
	nagashi := false
	for i := 0; i < 4; i++ {
		if eg.Players[i].NagashiEligible() {
			nagashi = true
			eg.Players[i].ShowHand = true
			payments := NagashiPayments(i, eg.Situation.DealerIndex)
			for s := 0; s < 4; s++ {
				delta[s] += payments[s]
			}
		}
	}
	if nagashi {
		reason = "流局满贯"
	} else {
		payments := TenpaiPayments(tenpai)
		copy(delta[:], payments[:])
	}

	// 立直供托留到下一局，庄家听牌则连庄
	eg.applyDelta(delta)
	dealerTenpai := tenpai[eg.Situation.DealerIndex]
	nextDealer := eg.advanceRound(dealerTenpai, true)

	eg.broadcastRoundEnd(RoundEndDrawExhaustive, []HuClaimDTO{}, delta, reason, nextDealer)
	eg.finalizeRound()
}

// LeadAbortDraw 途中流局：本场加一，无支付
// 四风连打、四家立直的连庄跟随听牌规则，其余途中流局庄家连庄
func (eg *RiichiMahjong4p) LeadAbortDraw(endType, reason string) {
	eg.TurnManager.EnterApplyingPhase()
	eg.annulRiichiSticksOnAbort(endType)

	dealerKeeps := true
	if endType == RoundEndDraw4Wind || endType == RoundEndDraw4Riichi {
		dealer := eg.Situation.DealerIndex
		eg.refreshTenpai(dealer)
		dealerKeeps = len(eg.Players[dealer].Tenpai) > 0
	}

	var delta [4]int
	nextDealer := eg.advanceRound(dealerKeeps, true)
	eg.broadcastRoundEnd(endType, []HuClaimDTO{}, delta, reason, nextDealer)
	eg.finalizeRound()
}

// annulRiichiSticksOnAbort 四家立直等途中流局时，已入场的供托留到下一局
func (eg *RiichiMahjong4p) annulRiichiSticksOnAbort(endType string) {
	// 宣言未确认的立直退回宣言状态
	if eg.pendingRiichi >= 0 && endType != RoundEndDraw4Riichi {
		eg.annulRiichi()
	}
	eg.pendingRiichi = -1
}

// advanceRound 本场与亲权推进，返回下一局庄家
// 和牌局：庄家和牌连庄本场加一，否则过庄本场清零
// 流局：本场恒加一，庄家听牌（或途中流局）连庄
func (eg *RiichiMahjong4p) advanceRound(dealerKeeps bool, isDraw bool) int {
	if dealerKeeps {
		eg.Situation.Honba++
		eg.allLastRenchan = int(eg.Situation.RoundWind)+1 == eg.Conf.AllLastWind &&
			eg.Situation.RoundNumber == 4
		return eg.Situation.DealerIndex
	}
	eg.allLastRenchan = false
	if isDraw {
		eg.Situation.Honba++
	} else {
		eg.Situation.Honba = 0
	}
	eg.Situation.DealerIndex = (eg.Situation.DealerIndex + 1) % 4
	eg.Situation.RoundNumber++
	if eg.Situation.RoundNumber > 4 {
		eg.Situation.RoundNumber = 1
		eg.Situation.RoundWind = eg.Situation.RoundWind.Next()
	}
	return eg.Situation.DealerIndex
}

func (eg *RiichiMahjong4p) applyDelta(delta [4]int) {
	for i := 0; i < 4; i++ {
		if delta[i] != 0 {
			eg.Players[i].AddPoints(delta[i])
		}
	}
}

// finalizeRound 点数已入账，判断终局或开下一局
func (eg *RiichiMahjong4p) finalizeRound() {
	if eg.shouldEndGame() {
		eg.handleGameOverEvent()
		return
	}

	eg.Reactions = make(map[int]*PlayerReaction)
	eg.lastDiscard.Valid = false
	eg.NotifyEvent(&StartRoundEvent{})
}

// shouldEndGame 终局条件：击飞、打完 All Last 后首位达标、All Last 连庄时庄家单独首位达标、加时赛上限
func (eg *RiichiMahjong4p) shouldEndGame() bool {
	maxPoints := -1
	for i := 0; i < 4; i++ {
		if eg.Players[i].Points < 0 {
			return true
		}
		if eg.Players[i].Points > maxPoints {
			maxPoints = eg.Players[i].Points
		}
	}

	// 场风序号按 1 起（东=1）
	windOrdinal := int(eg.Situation.RoundWind) + 1
	if windOrdinal > eg.Conf.MaxExtraWind {
		return true
	}
	if windOrdinal > eg.Conf.AllLastWind && maxPoints >= eg.Conf.TargetPoints {
		return true
	}

	// 和了止め／听牌止め：All Last 连庄且庄家单独首位达标
	if eg.allLastRenchan {
		dealer := eg.Players[eg.Situation.DealerIndex]
		if dealer.Points >= eg.Conf.TargetPoints && dealer.Points == maxPoints {
			unique := true
			for i := 0; i < 4; i++ {
				if i != eg.Situation.DealerIndex && eg.Players[i].Points == maxPoints {
					unique = false
					break
				}
			}
			if unique {
				return true
			}
		}
	}
	return false
}

func (eg *RiichiMahjong4p) handleGameOverEvent() {
	log.Info("游戏结束: room=%s", eg.RoomID)
	eg.broadcastGameEnd()
	eg.Terminate()
}

// ==================== 生命周期 ====================

func (eg *RiichiMahjong4p) getSeatIndex(userID string) (int, error) {
	if eg.UserMap == nil {
		return -1, fmt.Errorf("UserMap 未初始化")
	}
	userInfo, exists := eg.UserMap[userID]
	if !exists {
		return -1, fmt.Errorf("玩家 %s 不在房间中", userID)
	}
	return userInfo.SeatIndex, nil
}

// HappenDamageError 格局已不可恢复，销毁房间
func (eg *RiichiMahjong4p) HappenDamageError(err string) {
	log.Warn("游戏房间崩坏: room=%s, %s", eg.RoomID, err)
	eg.Terminate()
}

// Terminate 触发销毁房间（异步请求）
func (eg *RiichiMahjong4p) Terminate() {
	if eg.Service == nil || eg.RoomID == "" {
		return
	}
	eg.Service.RequestDestroyRoom(eg.RoomID)
}

func (eg *RiichiMahjong4p) Close() {
	eg.closeOnce.Do(func() {
		eg.closed.Store(true)
		if eg.gameDone != nil {
			close(eg.gameDone)
		}
		if eg.actorExit != nil {
			<-eg.actorExit
		}
		if eg.gameEvents != nil {
			close(eg.gameEvents)
		}

		eg.State = engines.GameFinished
		if eg.roundStartTimer != nil {
			eg.roundStartTimer.Stop()
		}
		if eg.TurnManager != nil {
			eg.TurnManager.stopAllTickers()
			eg.TurnManager = nil
		}
		if eg.Searcher != nil {
			eg.Searcher.Close()
			eg.Searcher = nil
		}
		eg.Reactions = nil
		eg.UserMap = nil
		eg.Players = [4]*PlayerImage{}
		eg.DeckManager = nil
	})
}

type TimeoutEvent struct {
	share.GameMessageEvent
	SeatIndex int
}

func (e *TimeoutEvent) GetEventType() string { return "Timeout" }

type StartRoundEvent struct {
	share.GameMessageEvent
}

func (e *StartRoundEvent) GetEventType() string { return "StartRound" }

// AutoDiscardEvent 立直托管摸切
type AutoDiscardEvent struct {
	share.GameMessageEvent
	SeatIndex int
}

func (e *AutoDiscardEvent) GetEventType() string { return "AutoDiscard" }

package mahjong

import (
	"math/rand"
	"time"
)

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

const (
	TileTypeCount = 34
	TileLimit     = 136
	DeadWallSize  = 14 // 王牌：岭上 4 + 宝牌指示 5 + 里宝牌指示 5
	RinshanCount  = 4
)

type Tile struct {
	Type TileType
	ID   int // 用于区分相同的牌（0-3）。对于数牌5，ID=0表示赤宝牌，ID=1-3表示普通牌
}

// IsRedFive 判断是否为赤宝牌（ID=0且为数牌5）
func (t Tile) IsRedFive() bool {
	return t.ID == 0 && (t.Type == Man5 || t.Type == Pin5 || t.Type == So5)
}

// Less 牌的全序：先按种类，同种类赤牌排在普通牌之前
func (t Tile) Less(o Tile) bool {
	if t.Type != o.Type {
		return t.Type < o.Type
	}
	return t.ID < o.ID
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsWind() bool {
	return t >= East && t <= North
}

func (t TileType) IsDragon() bool {
	return t >= White && t <= Red
}

// Suit 花色：0万 1筒 2索 3字
func (t TileType) Suit() int {
	return int(t) / 9
}

// Number 数牌点数 1-9，字牌返回 0
func (t TileType) Number() int {
	if !t.IsNumbered() {
		return 0
	}
	return int(t)%9 + 1
}

// IsTerminal 是否为老头牌（一、九）
func (t TileType) IsTerminal() bool {
	n := t.Number()
	return n == 1 || n == 9
}

// IsYaojiu 是否为幺九牌（老头牌或字牌）
func (t TileType) IsYaojiu() bool {
	return t.IsHonor() || t.IsTerminal()
}

// WindTile 门风/场风对应的字牌
func (w Wind) WindTile() TileType {
	return East + TileType(w)
}

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// DoraTile 宝牌指示牌指向的宝牌
// 数牌 9 指向 1，风牌东南西北循环，箭牌白发中循环
func DoraTile(indicator TileType) TileType {
	switch {
	case indicator.IsNumbered():
		if indicator.Number() == 9 {
			return indicator - 8
		}
		return indicator + 1
	case indicator.IsWind():
		if indicator == North {
			return East
		}
		return indicator + 1
	default:
		if indicator == Red {
			return White
		}
		return indicator + 1
	}
}

// Wang 王牌区
type Wang struct {
	DoraIndicators    []Tile // 已翻开的宝牌指示牌
	UraDoraIndicators []Tile // 里宝牌指示牌（与表指示牌一一对应，立直和牌时才公开）
}

// DeckManager 牌山
// 后 14 张为王牌：岭上牌从牌山尾部往前摸，每摸一张海底边界前移一张
type DeckManager struct {
	wall        []Tile // 完整的 136 张
	wallIndex   int    // 下一张可摸的位置
	rinshanUsed int    // 已摸的岭上牌数
	doraCount   int    // 已翻开的宝牌指示牌数
	wang        Wang
	rng         *rand.Rand
	useRedFives bool
}

func NewDeckManager(useRedFives bool) *DeckManager {
	return &DeckManager{
		wall:        make([]Tile, 0, TileLimit),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		useRedFives: useRedFives,
	}
}

// InitRound 洗牌并翻开首张宝牌指示牌
func (dm *DeckManager) InitRound() {
	tiles := buildTileSet()
	dm.rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})

	dm.wall = append(dm.wall[:0], tiles...)
	dm.wallIndex = 0
	dm.rinshanUsed = 0
	dm.doraCount = 0
	dm.wang.DoraIndicators = dm.wang.DoraIndicators[:0]
	dm.wang.UraDoraIndicators = dm.wang.UraDoraIndicators[:0]
	dm.RevealDoraIndicator()
}

// liveLimit 当前海底位置：王牌始终保持 14 张
func (dm *DeckManager) liveLimit() int {
	return len(dm.wall) - DeadWallSize - dm.rinshanUsed
}

// Remain 剩余可摸的牌数
func (dm *DeckManager) Remain() int {
	n := dm.liveLimit() - dm.wallIndex
	if n < 0 {
		return 0
	}
	return n
}

// Draw 从牌山摸一张牌
func (dm *DeckManager) Draw() (Tile, bool) {
	if dm.wallIndex >= dm.liveLimit() {
		return Tile{}, false
	}
	t := dm.wall[dm.wallIndex]
	dm.wallIndex++
	return t, true
}

// Deal 配牌阶段摸牌
func (dm *DeckManager) Deal() (Tile, bool) {
	return dm.Draw()
}

// DrawRinshan 摸岭上牌（杠、拔北后），同时海底前移一张
func (dm *DeckManager) DrawRinshan() (Tile, bool) {
	if dm.rinshanUsed >= RinshanCount {
		return Tile{}, false
	}
	t := dm.wall[len(dm.wall)-1-dm.rinshanUsed]
	dm.rinshanUsed++
	return t, true
}

// RevealDoraIndicator 翻开一张新的宝牌指示牌，最多 5 张
func (dm *DeckManager) RevealDoraIndicator() (Tile, bool) {
	if dm.doraCount >= 5 {
		return Tile{}, false
	}
	// 王牌区固定布局：岭上 4 张之后，表里指示牌交替排列
	base := len(dm.wall) - 1 - RinshanCount - dm.doraCount*2
	indicator := dm.wall[base]
	ura := dm.wall[base-1]
	dm.doraCount++
	dm.wang.DoraIndicators = append(dm.wang.DoraIndicators, indicator)
	dm.wang.UraDoraIndicators = append(dm.wang.UraDoraIndicators, ura)
	return indicator, true
}

// IsHoutei 下一张打出的牌是否为河底牌（牌山已空）
func (dm *DeckManager) IsHoutei() bool {
	return dm.Remain() == 0
}

func (dm *DeckManager) Wang() *Wang {
	return &dm.wang
}

func buildTileSet() []Tile {
	tiles := make([]Tile, 0, TileLimit)
	for tileType := Man1; tileType <= Red; tileType++ {
		for i := 0; i < 4; i++ {
			tiles = append(tiles, Tile{Type: tileType, ID: i})
		}
	}
	return tiles
}

// UseRedFives 本牌山是否计赤宝牌
func (dm *DeckManager) UseRedFives() bool {
	return dm.useRedFives
}

// Situation 对局环境
type Situation struct {
	DealerIndex  int  // 庄家座位(0-3)
	Honba        int  // 本场数
	RoundWind    Wind // 场风
	RoundNumber  int  // 局数(1-4)
	RiichiSticks int  // 供托立直棒数量
}

// SeatWind 座位的门风
func (s *Situation) SeatWind(seat int) Wind {
	return Wind((seat - s.DealerIndex + 4) % 4)
}

type MeldType int

const (
	MeldChi       MeldType = iota // 吃
	MeldPeng                      // 碰
	MeldMinkan                    // 大明杠
	MeldKakan                     // 加杠
	MeldAnkan                     // 暗杠
)

type Meld struct {
	Type       MeldType
	Tiles      []Tile
	From       int  // 从哪个玩家那里获得（暗杠为自己）
	CalledTile Tile // 鸣到的那张牌
	ChiStart   TileType
}

func (m Meld) IsKan() bool {
	return m.Type == MeldMinkan || m.Type == MeldKakan || m.Type == MeldAnkan
}

// IsOpen 是否破坏门清（暗杠不破坏）
func (m Meld) IsOpen() bool {
	return m.Type != MeldAnkan
}

type RiichiType int

const (
	RiichiNone   RiichiType = iota
	RiichiNormal            // 立直
	RiichiDouble            // 两立直
)

// DropStatus 舍张状态
type DropStatus int

const (
	DropNormal   DropStatus = iota
	DropRiichi              // 立直宣言牌（横放）
	DropObtained            // 被他家鸣走
)

// Drop 一张舍张及其状态
type Drop struct {
	Tile   Tile
	Status DropStatus
	Moqie  bool // 摸切
}

const (
	RoundEndTsumo          = "TSUMO"
	RoundEndRon            = "RON"
	RoundEndDrawExhaustive = "DRAW_EXHAUSTIVE"
	RoundEndDraw3Ron       = "DRAW_3RON"
	RoundEndDraw4Kan       = "DRAW_4KAN"
	RoundEndDraw4Riichi    = "DRAW_4RIICHI"
	RoundEndDraw4Wind      = "DRAW_4WIND"
	RoundEndDrawKskh       = "DRAW_KSKH"
)

// HuClaim 一次和牌
type HuClaim struct {
	WinnerSeat int
	HasLoser   bool
	LoserSeat  int
	WinTile    Tile
	Result     *WinResult
	Points     *PointResult
}

type PlayerOperation struct {
	Type  string // "HU", "GANG", "PENG", "CHI"
	Tiles []Tile // 操作涉及的牌（对于吃碰杠，包含手中选择的牌）
}

// PlayerReaction 玩家对一次出牌/加杠的反应窗口
type PlayerReaction struct {
	Operations []*PlayerOperation // 该玩家可用的所有操作选择
	ChosenOp   *PlayerOperation   // 玩家选择的操作（nil表示未响应或放弃）
	Responded  bool               // 是否已响应
	Cancelled  bool               // 高优先级操作达成后被取消，迟到的应答作废
}

package mahjong

import "sort"

// PlayerImage 一个座位的全部规则可见状态
// 只允许引擎的 actor 协程读写
type PlayerImage struct {
	UserID    string
	SeatIndex int

	Tiles       []Tile // 手中的牌（含刚摸到的）
	DiscardPile []Drop // 舍张（含状态：普通/立直宣言/被鸣走）
	Melds       []Meld // 碰、杠、吃的组合
	BeiTiles    []Tile // 拔出的北风牌

	RiichiType       RiichiType
	Ippatsu          bool // 一发有效
	Furiten          bool // 振听（含舍张振听和同巡振听）
	PermanentFuriten bool // 立直后见逃，本局内不再解除

	DiscardedTiles map[TileType]struct{} // 已弃的牌类型集合（用于振听判断），考虑到弃牌堆的牌有可能会被副露，需要额外维护
	NewestTile     *Tile                 // 最新摸的牌（用于自摸和判断与摸切）
	Tenpai         []TileType            // 当前听牌（非听牌时为空）

	Points      int // 当前点数
	PointChange int // 本局点数变动

	ShowHand bool // 流局或和牌时需展示手牌
}

// NewPlayerImage 创建玩家游戏状态实例
func NewPlayerImage(userID string, seatIndex int, initialPoints int) *PlayerImage {
	return &PlayerImage{
		UserID:         userID,
		SeatIndex:      seatIndex,
		Tiles:          make([]Tile, 0, 14),
		DiscardPile:    make([]Drop, 0, 24),
		Melds:          make([]Meld, 0, 4),
		DiscardedTiles: make(map[TileType]struct{}),
		Points:         initialPoints,
	}
}

// ResetRound 新的一局初始化，点数保留
func (p *PlayerImage) ResetRound() {
	p.Tiles = p.Tiles[:0]
	p.DiscardPile = p.DiscardPile[:0]
	p.Melds = p.Melds[:0]
	p.BeiTiles = p.BeiTiles[:0]
	p.RiichiType = RiichiNone
	p.Ippatsu = false
	p.Furiten = false
	p.PermanentFuriten = false
	p.DiscardedTiles = make(map[TileType]struct{})
	p.NewestTile = nil
	p.Tenpai = nil
	p.PointChange = 0
	p.ShowHand = false
}

// IsMenzen 门前清：副露中只允许暗杠
func (p *PlayerImage) IsMenzen() bool {
	for _, m := range p.Melds {
		if m.IsOpen() {
			return false
		}
	}
	return true
}

func (p *PlayerImage) SortTiles() {
	sort.Slice(p.Tiles, func(i, j int) bool {
		return p.Tiles[i].Less(p.Tiles[j])
	})
}

func (p *PlayerImage) AddTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
}

// DrawTile 摸牌并记录最新牌
func (p *PlayerImage) DrawTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
	newest := tile
	p.NewestTile = &newest
}

// HasTile 按牌型和编号精确查找
func (p *PlayerImage) HasTile(tile Tile) bool {
	for i := range p.Tiles {
		if p.Tiles[i].Type == tile.Type && p.Tiles[i].ID == tile.ID {
			return true
		}
	}
	return false
}

// RemoveTile 按牌型和编号精确移除一张
func (p *PlayerImage) RemoveTile(tile Tile) bool {
	for i := range p.Tiles {
		if p.Tiles[i].Type == tile.Type && p.Tiles[i].ID == tile.ID {
			p.Tiles = append(p.Tiles[:i], p.Tiles[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveTileByType 移除指定种类中的任意一张，优先非赤牌
func (p *PlayerImage) RemoveTileByType(tileType TileType) (Tile, bool) {
	idx := -1
	for i := range p.Tiles {
		if p.Tiles[i].Type != tileType {
			continue
		}
		if idx == -1 || p.Tiles[i].ID > p.Tiles[idx].ID {
			idx = i
		}
	}
	if idx == -1 {
		return Tile{}, false
	}
	t := p.Tiles[idx]
	p.Tiles = append(p.Tiles[:idx], p.Tiles[idx+1:]...)
	return t, true
}

// CountTileType 手中指定种类的张数
func (p *PlayerImage) CountTileType(tileType TileType) int {
	n := 0
	for _, t := range p.Tiles {
		if t.Type == tileType {
			n++
		}
	}
	return n
}

// Counts34 手牌的 34 计数表示
func (p *PlayerImage) Counts34() [TileTypeCount]int {
	var counts [TileTypeCount]int
	for _, t := range p.Tiles {
		counts[t.Type]++
	}
	return counts
}

// DiscardTile 打出一张牌并更新振听用的舍张集合
func (p *PlayerImage) DiscardTile(tile Tile, status DropStatus, moqie bool) bool {
	if !p.RemoveTile(tile) {
		return false
	}
	p.DiscardPile = append(p.DiscardPile, Drop{Tile: tile, Status: status, Moqie: moqie})
	p.DiscardedTiles[tile.Type] = struct{}{}
	p.NewestTile = nil
	return true
}

// MarkLastDropObtained 最后一张舍张被他家鸣走
func (p *PlayerImage) MarkLastDropObtained() {
	if len(p.DiscardPile) > 0 {
		p.DiscardPile[len(p.DiscardPile)-1].Status = DropObtained
	}
}

// HasDiscardedTile 检查是否弃过某种牌（用于振听判断）
func (p *PlayerImage) HasDiscardedTile(tileType TileType) bool {
	_, exists := p.DiscardedTiles[tileType]
	return exists
}

// RefreshFuriten 依据当前听牌和舍张重新计算舍张振听
// 永久振听不参与重算
func (p *PlayerImage) RefreshFuriten() {
	p.Furiten = p.PermanentFuriten
	if p.Furiten {
		return
	}
	for _, w := range p.Tenpai {
		if p.HasDiscardedTile(w) {
			p.Furiten = true
			return
		}
	}
}

// IsWaitingFor 当前听牌中是否包含该种牌
func (p *PlayerImage) IsWaitingFor(tileType TileType) bool {
	for _, w := range p.Tenpai {
		if w == tileType {
			return true
		}
	}
	return false
}

// MeldCountForDecompose 参与拆解的副露数（拔北不占用面子位）
func (p *PlayerImage) MeldCountForDecompose() int {
	return len(p.Melds)
}

func (p *PlayerImage) AddPoints(points int) {
	p.Points += points
	p.PointChange += points
}

// KanCount 副露中的杠数
func (p *PlayerImage) KanCount() int {
	n := 0
	for _, m := range p.Melds {
		if m.IsKan() {
			n++
		}
	}
	return n
}

// NagashiEligible 流局满贯资格：舍张全部为幺九牌且未被鸣走
func (p *PlayerImage) NagashiEligible() bool {
	if len(p.DiscardPile) == 0 {
		return false
	}
	for _, d := range p.DiscardPile {
		if !d.Tile.Type.IsYaojiu() || d.Status == DropObtained {
			return false
		}
	}
	return true
}

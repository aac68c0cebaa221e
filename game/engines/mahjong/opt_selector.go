package mahjong

const (
	OpHu   = "HU"
	OpGang = "GANG"
	OpPeng = "PENG"
	OpChi  = "CHI"
	OpSkip = "SKIP"
)

// calculateReactions 计算各家对一次出牌的可选操作
// 河底牌只可荣和；立直家只保留荣和
func (eg *RiichiMahjong4p) calculateReactions(discarder int, tile Tile, source CardSource) map[int]*PlayerReaction {
	reactions := make(map[int]*PlayerReaction)
	houtei := source == SourceHoutei

	for i := 0; i < 4; i++ {
		if i == discarder {
			continue
		}

		var playerOps []*PlayerOperation

		if eg.canRon(i, tile, source) {
			playerOps = append(playerOps, &PlayerOperation{
				Type:  OpHu,
				Tiles: []Tile{tile},
			})
		}

		if !houtei {
			playerOps = append(playerOps, eg.gangOptions(i, tile)...)
			playerOps = append(playerOps, eg.pengOptions(i, tile)...)
			if (discarder+1)%4 == i {
				playerOps = append(playerOps, eg.chiOptions(i, tile)...)
			}
		}

		if len(playerOps) > 0 {
			reactions[i] = &PlayerReaction{Operations: playerOps}
		}
	}
	return reactions
}

// calculateAnkanRobReactions 暗杠的抢杠：只允许国士无双
func (eg *RiichiMahjong4p) calculateAnkanRobReactions(ankanSeat int, tile Tile) map[int]*PlayerReaction {
	reactions := make(map[int]*PlayerReaction)
	for i := 0; i < 4; i++ {
		if i == ankanSeat {
			continue
		}
		if eg.canRobAnkan(i, tile) {
			reactions[i] = &PlayerReaction{
				Operations: []*PlayerOperation{{Type: OpHu, Tiles: []Tile{tile}}},
			}
		}
	}
	return reactions
}

// calculateKakanReactions 抢杠：加杠宣言时其他家只有荣和可选
func (eg *RiichiMahjong4p) calculateKakanReactions(kakanSeat int, tile Tile) map[int]*PlayerReaction {
	reactions := make(map[int]*PlayerReaction)
	for i := 0; i < 4; i++ {
		if i == kakanSeat {
			continue
		}
		if eg.canRon(i, tile, SourceRobKan) {
			reactions[i] = &PlayerReaction{
				Operations: []*PlayerOperation{{Type: OpHu, Tiles: []Tile{tile}}},
			}
		}
	}
	return reactions
}

// pengOptions 碰的候选组合，赤牌与普通牌算不同选择
func (eg *RiichiMahjong4p) pengOptions(seatIndex int, droppedTile Tile) []*PlayerOperation {
	var ops []*PlayerOperation
	if !eg.canPeng(seatIndex, droppedTile) {
		return ops
	}

	player := eg.Players[seatIndex]
	var matching []Tile
	for _, tile := range player.Tiles {
		if tile.Type == droppedTile.Type {
			matching = append(matching, tile)
		}
	}
	if len(matching) < 2 {
		return ops
	}

	seen := make(map[[2]bool]struct{})
	for i := 0; i < len(matching); i++ {
		for j := i + 1; j < len(matching); j++ {
			// 同为普通牌的组合只保留一个
			key := [2]bool{matching[i].IsRedFive(), matching[j].IsRedFive()}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			ops = append(ops, &PlayerOperation{
				Type:  OpPeng,
				Tiles: []Tile{matching[i], matching[j]},
			})
		}
	}
	return ops
}

// gangOptions 大明杠候选，三张同种牌全部交出，无需区分赤牌
func (eg *RiichiMahjong4p) gangOptions(seatIndex int, droppedTile Tile) []*PlayerOperation {
	var ops []*PlayerOperation
	if !eg.canMinkan(seatIndex, droppedTile) {
		return ops
	}

	player := eg.Players[seatIndex]
	matching := make([]Tile, 0, 3)
	for _, tile := range player.Tiles {
		if tile.Type == droppedTile.Type {
			matching = append(matching, tile)
			if len(matching) == 3 {
				break
			}
		}
	}
	if len(matching) < 3 {
		return ops
	}
	ops = append(ops, &PlayerOperation{Type: OpGang, Tiles: matching})
	return ops
}

// chiOptions 吃的候选组合
func (eg *RiichiMahjong4p) chiOptions(seatIndex int, droppedTile Tile) []*PlayerOperation {
	var ops []*PlayerOperation
	player := eg.Players[seatIndex]
	if player == nil {
		return ops
	}
	for _, combo := range eg.findChiCombinations(player, droppedTile) {
		ops = append(ops, &PlayerOperation{Type: OpChi, Tiles: combo})
	}
	return ops
}

// findChiCombinations 枚举吃的所有组合
// 三种相对位置：吃在低、中、高，赤牌产生独立的组合
func (eg *RiichiMahjong4p) findChiCombinations(player *PlayerImage, droppedTile Tile) [][]Tile {
	var combos [][]Tile
	if !droppedTile.Type.IsNumbered() {
		return combos
	}

	suit := droppedTile.Type.Suit()
	n := droppedTile.Type.Number()
	patterns := [][2]int{{n - 2, n - 1}, {n - 1, n + 1}, {n + 1, n + 2}}

	for _, p := range patterns {
		if p[0] < 1 || p[1] > 9 {
			continue
		}
		t1 := TileType(suit*9 + p[0] - 1)
		t2 := TileType(suit*9 + p[1] - 1)
		for _, a := range distinctTilesOfType(player, t1) {
			for _, b := range distinctTilesOfType(player, t2) {
				combos = append(combos, []Tile{a, b})
			}
		}
	}
	return combos
}

// distinctTilesOfType 同种牌最多给两个代表：一张普通、一张赤
func distinctTilesOfType(player *PlayerImage, tileType TileType) []Tile {
	var result []Tile
	hasNormal, hasRed := false, false
	for _, t := range player.Tiles {
		if t.Type != tileType {
			continue
		}
		if t.IsRedFive() {
			if !hasRed {
				result = append(result, t)
				hasRed = true
			}
		} else if !hasNormal {
			result = append(result, t)
			hasNormal = true
		}
	}
	return result
}

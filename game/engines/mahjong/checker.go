package mahjong

// buildWinEnv 组装和牌判定环境
// 里宝牌只在立直时参与计数
func (eg *RiichiMahjong4p) buildWinEnv(seatIndex int, tsumo bool, source CardSource) *WinEnv {
	player := eg.Players[seatIndex]
	env := &WinEnv{
		RoundWind:      eg.Situation.RoundWind,
		SeatWind:       eg.Situation.SeatWind(seatIndex),
		DoraIndicators: eg.DeckManager.Wang().DoraIndicators,
		Tsumo:          tsumo,
		Source:         source,
		Riichi:         player.RiichiType,
		Ippatsu:        player.Ippatsu,
		CountRed:       eg.DeckManager.UseRedFives(),
	}
	if player.RiichiType != RiichiNone {
		env.UraDoraIndicators = eg.DeckManager.Wang().UraDoraIndicators
	}
	if tsumo && eg.firstCycle && len(player.DiscardPile) == 0 {
		if seatIndex == eg.Situation.DealerIndex {
			env.Tianhu = true
		} else {
			env.Dihu = true
		}
	}
	return env
}

// canRon 荣和判定：在听、非振听、有起和役
func (eg *RiichiMahjong4p) canRon(seatIndex int, tile Tile, source CardSource) bool {
	player := eg.Players[seatIndex]
	if player == nil {
		return false
	}
	if !player.IsWaitingFor(tile.Type) {
		return false
	}
	if player.Furiten || eg.tempFuriten[seatIndex] {
		return false
	}
	env := eg.buildWinEnv(seatIndex, false, source)
	return CheckWin(player, tile, env) != nil
}

// canRobAnkan 抢暗杠判定：只有国士无双形可抢
func (eg *RiichiMahjong4p) canRobAnkan(seatIndex int, tile Tile) bool {
	player := eg.Players[seatIndex]
	if player == nil || !player.IsWaitingFor(tile.Type) {
		return false
	}
	if player.Furiten || eg.tempFuriten[seatIndex] {
		return false
	}
	env := eg.buildWinEnv(seatIndex, false, SourceRobKan)
	result := CheckWin(player, tile, env)
	if result == nil || result.Decomp == nil {
		return false
	}
	return result.Decomp.Shape == ShapeKokushi || result.Decomp.Shape == ShapeKokushi13
}

// canTsumo 自摸和判定
func (eg *RiichiMahjong4p) canTsumo(seatIndex int, source CardSource) bool {
	player := eg.Players[seatIndex]
	if player == nil || player.NewestTile == nil {
		return false
	}
	env := eg.buildWinEnv(seatIndex, true, source)
	return CheckWin(player, *player.NewestTile, env) != nil
}

// canPeng 碰判定：手中至少两张同种牌，立直后不可碰
func (eg *RiichiMahjong4p) canPeng(seatIndex int, tile Tile) bool {
	player := eg.Players[seatIndex]
	if player == nil || player.RiichiType != RiichiNone {
		return false
	}
	return player.CountTileType(tile.Type) >= 2
}

// canMinkan 大明杠判定：手中三张同种牌且岭上还有牌
func (eg *RiichiMahjong4p) canMinkan(seatIndex int, tile Tile) bool {
	player := eg.Players[seatIndex]
	if player == nil || player.RiichiType != RiichiNone {
		return false
	}
	if !eg.kanAllowed() {
		return false
	}
	return player.CountTileType(tile.Type) >= 3
}

// canChi 吃判定：仅下家、数牌、能成顺子，立直后不可吃
func (eg *RiichiMahjong4p) canChi(seatIndex int, tile Tile) bool {
	player := eg.Players[seatIndex]
	if player == nil || player.RiichiType != RiichiNone {
		return false
	}
	if !tile.Type.IsNumbered() {
		return false
	}
	return len(eg.findChiCombinations(player, tile)) > 0
}

// kanAllowed 开杠前置条件：岭上还有牌且牌山未摸空
func (eg *RiichiMahjong4p) kanAllowed() bool {
	return eg.DeckManager.Remain() > 0 && eg.totalKanCount() < RinshanCount
}

func (eg *RiichiMahjong4p) totalKanCount() int {
	n := 0
	for i := 0; i < 4; i++ {
		if eg.Players[i] != nil {
			n += eg.Players[i].KanCount()
		}
	}
	return n
}

// ankanOptions 暗杠候选
// 立直后只允许杠刚摸到的那张，且听牌不能改变
func (eg *RiichiMahjong4p) ankanOptions(seatIndex int) []TileType {
	player := eg.Players[seatIndex]
	if player == nil || !eg.kanAllowed() {
		return nil
	}

	var options []TileType
	counts := player.Counts34()
	for t := TileType(0); t < TileTypeCount; t++ {
		if counts[t] < 4 {
			continue
		}
		if player.RiichiType != RiichiNone {
			if player.NewestTile == nil || player.NewestTile.Type != t {
				continue
			}
			if !eg.ankanKeepsWaits(player, t) {
				continue
			}
		}
		options = append(options, t)
	}
	return options
}

// ankanKeepsWaits 立直后暗杠必须保持听牌不变
func (eg *RiichiMahjong4p) ankanKeepsWaits(player *PlayerImage, tileType TileType) bool {
	counts := player.Counts34()
	counts[tileType] -= 4
	if player.NewestTile != nil {
		// 摸牌前的听牌口径：去掉刚摸到的那张
		before := player.Counts34()
		before[player.NewestTile.Type]--
		current := eg.Searcher.Waits(before, player.MeldCountForDecompose())
		after := eg.Searcher.Waits(counts, player.MeldCountForDecompose()+1)
		return sameWaits(current, after)
	}
	return false
}

func sameWaits(a, b []TileType) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[TileType]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// kakanOptions 加杠候选：已有碰副露且手中摸到第四张
func (eg *RiichiMahjong4p) kakanOptions(seatIndex int) []TileType {
	player := eg.Players[seatIndex]
	if player == nil || player.RiichiType != RiichiNone || !eg.kanAllowed() {
		return nil
	}
	var options []TileType
	for _, m := range player.Melds {
		if m.Type != MeldPeng {
			continue
		}
		t := m.Tiles[0].Type
		if player.CountTileType(t) >= 1 {
			options = append(options, t)
		}
	}
	return options
}

// canBei 拔北：手中有北风且岭上有补牌，立直后不可拔
func (eg *RiichiMahjong4p) canBei(seatIndex int) bool {
	if !eg.beiEnabled {
		return false
	}
	player := eg.Players[seatIndex]
	if player == nil || player.RiichiType != RiichiNone {
		return false
	}
	if eg.DeckManager.Remain() <= 0 {
		return false
	}
	return player.CountTileType(North) >= 1
}

// canKyuushu 九种九牌：第一巡无任何鸣牌、手中幺九牌种类 >= 9
func (eg *RiichiMahjong4p) canKyuushu(seatIndex int) bool {
	if !eg.firstCycle {
		return false
	}
	player := eg.Players[seatIndex]
	if player == nil || len(player.DiscardPile) > 0 || len(player.Tiles) != 14 {
		return false
	}
	kinds := 0
	counts := player.Counts34()
	for t := TileType(0); t < TileTypeCount; t++ {
		if counts[t] > 0 && t.IsYaojiu() {
			kinds++
		}
	}
	return kinds >= 9
}

// riichiCandidates 立直候选：打出后仍听牌的那些牌
// 资格：门前清、点数 >= 1000、牌山至少还剩 4 张、尚未立直
func (eg *RiichiMahjong4p) riichiCandidates(seatIndex int) []Tile {
	player := eg.Players[seatIndex]
	if player == nil || player.RiichiType != RiichiNone {
		return nil
	}
	if !player.IsMenzen() || player.Points < 1000 {
		return nil
	}
	if eg.DeckManager.Remain() < 4 {
		return nil
	}

	discardWaits := eg.Searcher.DiscardWaits(player.Counts34(), player.MeldCountForDecompose())
	var candidates []Tile
	seen := make(map[TileType]struct{})
	for _, t := range player.Tiles {
		if _, done := seen[t.Type]; done {
			continue
		}
		if waits, ok := discardWaits[t.Type]; ok && len(waits) > 0 {
			candidates = append(candidates, t)
			seen[t.Type] = struct{}{}
		}
	}
	return candidates
}

// refreshTenpai 重算一个座位的听牌与舍张振听
func (eg *RiichiMahjong4p) refreshTenpai(seatIndex int) {
	player := eg.Players[seatIndex]
	if player == nil {
		return
	}
	counts := player.Counts34()
	if player.NewestTile != nil {
		counts[player.NewestTile.Type]--
	}
	player.Tenpai = eg.Searcher.Waits(counts, player.MeldCountForDecompose())
	player.RefreshFuriten()
}

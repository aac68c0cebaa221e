package mahjong

import "testing"

func newReactionEngine(t *testing.T) *RiichiMahjong4p {
	t.Helper()
	eg := newSettlementEngine()
	eg.DeckManager = NewDeckManager(true)
	eg.DeckManager.InitRound()
	eg.Searcher = NewSearcher()
	t.Cleanup(eg.Searcher.Close)
	return eg
}

func TestCalculateReactions(t *testing.T) {
	eg := newReactionEngine(t)
	dropped := tt(Man5)

	// 下家：碰 + 吃
	seat1 := eg.Players[1]
	for _, tile := range tiles(Man3, Man4, Man5, Man5, East, South, West, North, White, Green, Red, So1, So9) {
		seat1.AddTile(tile)
	}

	// 对家：无可用操作
	seat2 := eg.Players[2]
	for _, tile := range tiles(Man6, Man7, Pin1, Pin2) {
		seat2.AddTile(tile)
	}

	// 上家：断幺听 Man2/Man5，可荣和
	seat3 := eg.Players[3]
	for _, tile := range tiles(Pin2, Pin3, Pin4, Pin5, Pin6, Pin7, So6, So7, So8, So3, So3, Man3, Man4) {
		seat3.AddTile(tile)
	}
	seat3.Tenpai = []TileType{Man2, Man5}

	reactions := eg.calculateReactions(0, dropped, SourceNormal)

	r1, ok := reactions[1]
	if !ok {
		t.Fatalf("next seat expected reactions")
	}
	var hasPeng, hasChi, hasHu bool
	for _, op := range r1.Operations {
		switch op.Type {
		case OpPeng:
			hasPeng = true
		case OpChi:
			hasChi = true
		case OpHu:
			hasHu = true
		}
	}
	if !hasPeng || !hasChi || hasHu {
		t.Fatalf("next seat expected peng+chi, got %+v", r1.Operations)
	}

	if _, ok := reactions[2]; ok {
		t.Fatalf("non-adjacent seat must not get chi and has nothing else")
	}

	r3, ok := reactions[3]
	if !ok || len(r3.Operations) == 0 || r3.Operations[0].Type != OpHu {
		t.Fatalf("waiting seat expected ron offer, got %+v", reactions[3])
	}
}

func TestCalculateReactions_HouteiRonOnly(t *testing.T) {
	eg := newReactionEngine(t)
	dropped := tt(Man5)

	seat1 := eg.Players[1]
	for _, tile := range tiles(Man3, Man4, Man5, Man5) {
		seat1.AddTile(tile)
	}

	reactions := eg.calculateReactions(0, dropped, SourceHoutei)
	if _, ok := reactions[1]; ok {
		t.Fatalf("houtei tile allows ron only, melds must vanish")
	}
}

func TestCalculateReactions_FuritenBlocksRon(t *testing.T) {
	eg := newReactionEngine(t)
	dropped := tt(Man5)

	seat3 := eg.Players[3]
	for _, tile := range tiles(Pin2, Pin3, Pin4, Pin5, Pin6, Pin7, So6, So7, So8, So3, So3, Man3, Man4) {
		seat3.AddTile(tile)
	}
	seat3.Tenpai = []TileType{Man2, Man5}
	eg.tempFuriten[3] = true

	reactions := eg.calculateReactions(0, dropped, SourceNormal)
	if _, ok := reactions[3]; ok {
		t.Fatalf("temporary furiten must block ron")
	}
}

func TestPengOptions_RedFiveVariants(t *testing.T) {
	eg := newReactionEngine(t)
	player := eg.Players[1]
	player.AddTile(Tile{Type: Man5, ID: 0}) // 赤
	player.AddTile(Tile{Type: Man5, ID: 1})
	player.AddTile(Tile{Type: Man5, ID: 2})

	ops := eg.pengOptions(1, tt(Man5))
	// 普通x2 与 赤+普通 两种组合
	if len(ops) != 2 {
		t.Fatalf("peng options expected 2 (plain pair, red+plain), got %d", len(ops))
	}
}

func TestFindChiCombinations_RedFiveVariants(t *testing.T) {
	eg := newReactionEngine(t)
	player := eg.Players[1]
	player.AddTile(Tile{Type: Pin5, ID: 0}) // 赤
	player.AddTile(Tile{Type: Pin5, ID: 1})
	player.AddTile(Tile{Type: Pin6, ID: 1})

	combos := eg.findChiCombinations(player, tt(Pin4))
	if len(combos) != 2 {
		t.Fatalf("chi combos expected 2 (with/without red five), got %d", len(combos))
	}

	if got := eg.findChiCombinations(player, tt(East)); len(got) != 0 {
		t.Fatalf("honor tile can never be chi'd")
	}
}

func TestSelectBestReaction_Priority(t *testing.T) {
	eg := newSettlementEngine()
	eg.Reactions = map[int]*PlayerReaction{
		1: {Responded: true, ChosenOp: &PlayerOperation{Type: OpChi}},
		2: {Responded: true, ChosenOp: &PlayerOperation{Type: OpGang}},
		3: {Responded: true, ChosenOp: &PlayerOperation{Type: OpPeng}},
	}
	action := eg.selectBestReaction()
	if action == nil || action.Type != OpGang || action.PlayerSeat != 2 {
		t.Fatalf("gang must outrank peng and chi, got %+v", action)
	}

	delete(eg.Reactions, 2)
	action = eg.selectBestReaction()
	if action == nil || action.Type != OpPeng || action.PlayerSeat != 3 {
		t.Fatalf("peng must outrank chi, got %+v", action)
	}

	eg.Reactions = map[int]*PlayerReaction{1: {Responded: true}}
	if eg.selectBestReaction() != nil {
		t.Fatalf("no chosen op must yield nil")
	}
}

func TestCanKyuushu(t *testing.T) {
	eg := newReactionEngine(t)
	eg.firstCycle = true
	player := eg.Players[0]
	for _, tile := range tiles(
		Man1, Man9, Pin1, Pin9, So1, So9,
		East, South, West,
		Man2, Man3, Pin4, Pin5, So6,
	) {
		player.AddTile(tile)
	}
	if !eg.canKyuushu(0) {
		t.Fatalf("nine distinct terminals/honors must qualify")
	}

	// 出过牌后失效
	player.DiscardPile = append(player.DiscardPile, Drop{Tile: tt(Man2)})
	if eg.canKyuushu(0) {
		t.Fatalf("kyuushu only before the first discard")
	}
}

func TestRiichiCandidates(t *testing.T) {
	eg := newReactionEngine(t)
	player := eg.Players[0]
	for _, tile := range tiles(
		Man1, Man2, Man3,
		Pin1, Pin2, Pin3,
		So1, So2, So3,
		Man7, Man8,
		East, East,
		West,
	) {
		player.AddTile(tile)
	}

	candidates := eg.riichiCandidates(0)
	if len(candidates) != 1 || candidates[0].Type != West {
		t.Fatalf("only discarding West keeps tenpai, got %v", candidates)
	}

	// 点数不足 1000 不能立直
	player.Points = 900
	if got := eg.riichiCandidates(0); got != nil {
		t.Fatalf("riichi requires 1000 points, got %v", got)
	}
}

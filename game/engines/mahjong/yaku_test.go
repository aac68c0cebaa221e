package mahjong

import "testing"

func newWinPlayer(hand []Tile) *PlayerImage {
	p := NewPlayerImage("tester", 1, 25000)
	for _, tile := range hand {
		p.AddTile(tile)
	}
	return p
}

func yakuFan(result *WinResult, y Yaku) (int, bool) {
	for _, e := range result.Yaku {
		if e.Yaku == y {
			return e.Fan, true
		}
	}
	return 0, false
}

func requireYaku(t *testing.T, result *WinResult, y Yaku, fan int) {
	t.Helper()
	got, ok := yakuFan(result, y)
	if !ok {
		t.Fatalf("expected yaku %v in %v", y, result.Yaku)
	}
	if got != fan {
		t.Fatalf("yaku %v fan expected %d, got %d", y, fan, got)
	}
}

// 立直自摸平和：断幺 + 三色 + 一杯口，宝牌里宝牌各 2，合计 11 番 20 符
func TestCheckWin_RiichiTsumoPinfu(t *testing.T) {
	p := newWinPlayer(tiles(
		Man2, Man2, Man3, Man3, Man4, Man4,
		Pin2, Pin3, Pin4,
		So2, So3,
		So8, So8,
	))
	p.DrawTile(tt(So4))
	p.RiichiType = RiichiNormal

	env := &WinEnv{
		RoundWind:         WindEast,
		SeatWind:          WindSouth,
		DoraIndicators:    []Tile{tt(Man2)}, // 宝牌 Man3
		UraDoraIndicators: []Tile{tt(So7)},  // 里宝牌 So8
		Tsumo:             true,
		Riichi:            RiichiNormal,
		CountRed:          true,
	}
	result := CheckWin(p, tt(So4), env)
	if result == nil {
		t.Fatalf("expected win")
	}

	requireYaku(t, result, YakuRiichi, 1)
	requireYaku(t, result, YakuTsumo, 1)
	requireYaku(t, result, YakuTanyao, 1)
	requireYaku(t, result, YakuPinfu, 1)
	requireYaku(t, result, YakuSanshoku, 2)
	requireYaku(t, result, YakuIipeiko, 1)
	requireYaku(t, result, YakuDora, 2)
	requireYaku(t, result, YakuUraDora, 2)

	if result.Fan != 11 {
		t.Fatalf("total fan expected 11, got %d", result.Fan)
	}
	if result.Fu != 20 {
		t.Fatalf("fu expected 20 (pinfu tsumo), got %d", result.Fu)
	}
}

// 国士无双十三面：两倍役满 25 符
func TestCheckWin_Kokushi13(t *testing.T) {
	p := newWinPlayer(tiles(
		Man1, Man9, Pin1, Pin9, So1, So9,
		East, South, West, North,
		White, Green, Red,
	))
	p.DrawTile(tt(So1))

	env := &WinEnv{RoundWind: WindEast, SeatWind: WindSouth, Tsumo: true, CountRed: true}
	result := CheckWin(p, tt(So1), env)
	if result == nil {
		t.Fatalf("expected win")
	}
	requireYaku(t, result, YakuKokushi13, -2)
	if result.Fan != -2 {
		t.Fatalf("fan expected -2 (double yakuman), got %d", result.Fan)
	}
	if result.Fu != 25 {
		t.Fatalf("fu expected 25, got %d", result.Fu)
	}
}

// 纯正九莲宝灯：和牌前恰为 3111111113
func TestCheckWin_JunseiChuuren(t *testing.T) {
	p := newWinPlayer(tiles(
		Man1, Man1, Man1,
		Man2, Man3, Man4, Man5, Man6, Man7, Man8,
		Man9, Man9, Man9,
	))
	p.DrawTile(tt(Man5))

	env := &WinEnv{RoundWind: WindEast, SeatWind: WindWest, Tsumo: true, CountRed: true}
	result := CheckWin(p, tt(Man5), env)
	if result == nil {
		t.Fatalf("expected win")
	}
	requireYaku(t, result, YakuJunseiChuuren, -2)
	if result.Fan != -2 {
		t.Fatalf("fan expected -2 (double yakuman), got %d", result.Fan)
	}
}

// 拔北两张的荣和：对对 + 三暗刻 + 双役牌，宝牌 3 + 拔北 2 + 里宝牌 3，合计 15 番 50 符
func TestCheckWin_ToitoiWithBeiDora(t *testing.T) {
	p := newWinPlayer(tiles(
		Pin4, Pin4,
		So2, So2, So2,
		So4, So4, So4,
		Green, Green, Green,
		Red, Red,
	))
	p.BeiTiles = tiles(North, North)
	p.RiichiType = RiichiNormal

	env := &WinEnv{
		RoundWind:         WindEast,
		SeatWind:          WindSouth,
		DoraIndicators:    []Tile{tt(So3)}, // 宝牌 So4
		UraDoraIndicators: []Tile{tt(So1)}, // 里宝牌 So2
		Tsumo:             false,
		Riichi:            RiichiNormal,
		CountRed:          true,
	}
	result := CheckWin(p, tt(Red), env)
	if result == nil {
		t.Fatalf("expected win")
	}

	requireYaku(t, result, YakuRiichi, 1)
	requireYaku(t, result, YakuYakuhaiGreen, 1)
	requireYaku(t, result, YakuYakuhaiRed, 1)
	requireYaku(t, result, YakuToitoi, 2)
	requireYaku(t, result, YakuSananko, 2)
	requireYaku(t, result, YakuDora, 3)
	requireYaku(t, result, YakuBeiDora, 2)
	requireYaku(t, result, YakuUraDora, 3)

	if result.Fan != 15 {
		t.Fatalf("total fan expected 15, got %d", result.Fan)
	}
	if result.Fu != 50 {
		t.Fatalf("fu expected 50, got %d", result.Fu)
	}
}

// 无役不成和：宝牌再多也不能起和
func TestCheckWin_NoYakuReturnsNil(t *testing.T) {
	p := newWinPlayer(tiles(
		So3, So4, So5,
		Pin6, Pin7, Pin8,
		Man7, Man8,
		West, West,
	))
	p.Melds = append(p.Melds, Meld{
		Type:     MeldChi,
		Tiles:    tiles(Man2, Man3, Man4),
		From:     3,
		ChiStart: Man2,
	})

	env := &WinEnv{
		RoundWind:      WindEast,
		SeatWind:       WindSouth,
		DoraIndicators: []Tile{tt(Man6)},
		Tsumo:          false,
		CountRed:       true,
	}
	if result := CheckWin(p, tt(Man6), env); result != nil {
		t.Fatalf("open hand without yaku must not win, got %+v", result.Yaku)
	}
}

// 役满压制：国士成立时普通役与宝牌加成全部作废
func TestCheckWin_YakumanSuppressesMinorYaku(t *testing.T) {
	p := newWinPlayer(tiles(
		Man1, Man1, Man9, Pin1, Pin9, So1, So9,
		East, South, West, North,
		White, Green,
	))
	p.DrawTile(tt(Red))

	env := &WinEnv{
		RoundWind:      WindEast,
		SeatWind:       WindEast,
		DoraIndicators: []Tile{tt(Man9)}, // 宝牌 Man1，手中有
		Tsumo:          true,
		CountRed:       true,
	}
	result := CheckWin(p, tt(Red), env)
	if result == nil {
		t.Fatalf("expected win")
	}
	requireYaku(t, result, YakuKokushi, -1)
	for _, e := range result.Yaku {
		if e.Fan > 0 {
			t.Fatalf("yakuman must suppress non-yakuman entries, found %v", e.Yaku)
		}
	}
}

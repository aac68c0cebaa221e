package mahjong

import "testing"

func TestDeckManager_WallComposition(t *testing.T) {
	dm := NewDeckManager(true)
	dm.InitRound()

	if len(dm.wall) != TileLimit {
		t.Fatalf("wall size expected %d, got %d", TileLimit, len(dm.wall))
	}

	var perType [TileTypeCount]int
	redFives := 0
	for _, tile := range dm.wall {
		perType[tile.Type]++
		if tile.IsRedFive() {
			redFives++
		}
	}
	for tileType, n := range perType {
		if n != 4 {
			t.Fatalf("tile type %d expected 4 copies, got %d", tileType, n)
		}
	}
	if redFives != 3 {
		t.Fatalf("expected 3 red fives (5m 5p 5s), got %d", redFives)
	}
}

func TestDeckManager_RemainAndRinshan(t *testing.T) {
	dm := NewDeckManager(true)
	dm.InitRound()

	// 王牌 14 张不可摸
	if got := dm.Remain(); got != TileLimit-DeadWallSize {
		t.Fatalf("initial remain expected %d, got %d", TileLimit-DeadWallSize, got)
	}
	if len(dm.Wang().DoraIndicators) != 1 {
		t.Fatalf("one dora indicator revealed at round start, got %d", len(dm.Wang().DoraIndicators))
	}

	// 岭上摸牌后海底前移一张
	before := dm.Remain()
	if _, ok := dm.DrawRinshan(); !ok {
		t.Fatalf("rinshan draw failed")
	}
	if dm.Remain() != before-1 {
		t.Fatalf("rinshan draw must shrink live wall, remain %d -> %d", before, dm.Remain())
	}

	// 岭上只有 4 张
	for i := 0; i < RinshanCount-1; i++ {
		if _, ok := dm.DrawRinshan(); !ok {
			t.Fatalf("rinshan draw %d failed", i+2)
		}
	}
	if _, ok := dm.DrawRinshan(); ok {
		t.Fatalf("fifth rinshan draw must fail")
	}
}

func TestDeckManager_DoraIndicatorLimit(t *testing.T) {
	dm := NewDeckManager(false)
	dm.InitRound()

	for i := 0; i < 4; i++ {
		if _, ok := dm.RevealDoraIndicator(); !ok {
			t.Fatalf("dora reveal %d failed", i+2)
		}
	}
	if _, ok := dm.RevealDoraIndicator(); ok {
		t.Fatalf("sixth dora indicator must not exist")
	}
	if len(dm.Wang().UraDoraIndicators) != 5 {
		t.Fatalf("ura indicators expected 5, got %d", len(dm.Wang().UraDoraIndicators))
	}
}

func TestDeckManager_ExhaustLiveWall(t *testing.T) {
	dm := NewDeckManager(true)
	dm.InitRound()

	drawn := 0
	for {
		if _, ok := dm.Draw(); !ok {
			break
		}
		drawn++
	}
	if drawn != TileLimit-DeadWallSize {
		t.Fatalf("live wall expected %d draws, got %d", TileLimit-DeadWallSize, drawn)
	}
	if !dm.IsHoutei() {
		t.Fatalf("empty live wall must be houtei")
	}
}

func TestDoraTile(t *testing.T) {
	cases := []struct{ indicator, want TileType }{
		{Man1, Man2},
		{Man9, Man1},
		{Pin9, Pin1},
		{So5, So6},
		{North, East},
		{East, South},
		{Red, White},
		{White, Green},
	}
	for _, c := range cases {
		if got := DoraTile(c.indicator); got != c.want {
			t.Fatalf("DoraTile(%d) = %d, want %d", c.indicator, got, c.want)
		}
	}
}

func TestWindHelpers(t *testing.T) {
	if WindEast.WindTile() != East || WindNorth.WindTile() != North {
		t.Fatalf("wind tile mapping broken")
	}
	if WindNorth.Next() != WindEast {
		t.Fatalf("wind cycle must wrap north -> east")
	}
	seat := (&Situation{DealerIndex: 1}).SeatWind(0)
	if seat != WindNorth {
		t.Fatalf("seat 0 with dealer 1 expected north wind, got %v", seat)
	}
}

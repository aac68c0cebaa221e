package mahjong

import "testing"

func tt(t TileType) Tile {
	return Tile{Type: t, ID: 1}
}

func tiles(types ...TileType) []Tile {
	out := make([]Tile, 0, len(types))
	for _, t := range types {
		out = append(out, tt(t))
	}
	return out
}

func counts34(types ...TileType) [TileTypeCount]int {
	var counts [TileTypeCount]int
	for _, t := range types {
		counts[t]++
	}
	return counts
}

func TestDecomposeWin_StandardTanki(t *testing.T) {
	// 123m 456p 789s 111p + 单骑东
	concealed := counts34(
		Man1, Man2, Man3,
		Pin4, Pin5, Pin6,
		So7, So8, So9,
		Pin1, Pin1, Pin1,
		East,
	)
	decomps := DecomposeWin(concealed, 0, East)
	if len(decomps) == 0 {
		t.Fatalf("standard tanki win expected at least one decomposition")
	}
	for _, d := range decomps {
		if d.Shape != ShapeStandard {
			t.Fatalf("unexpected shape %v", d.Shape)
		}
		// 4 面子 + 雀头恰好消耗全部 14 张
		if len(d.Melds) != 4 || !d.HasPair {
			t.Fatalf("decomposition should consume 4 melds + pair, got melds=%d hasPair=%v", len(d.Melds), d.HasPair)
		}
		if d.WaitBits&WaitTanki == 0 {
			t.Fatalf("wait expected tanki, got bits %b", d.WaitBits)
		}
	}
}

func TestDecomposeWin_NotAWin(t *testing.T) {
	concealed := counts34(
		Man1, Man2, Man3,
		Pin4, Pin5, Pin6,
		So7, So8, So9,
		Pin1, Pin2, East,
		South,
	)
	if decomps := DecomposeWin(concealed, 0, West); len(decomps) != 0 {
		t.Fatalf("non-winning hand expected 0 decompositions, got %d", len(decomps))
	}
}

func TestDecomposeWin_RyanpeikoAlsoSevenPairs(t *testing.T) {
	// 223344m 223344p EE：二杯口与七对子两种拆法并存
	concealed := counts34(
		Man2, Man2, Man3, Man3, Man4, Man4,
		Pin2, Pin2, Pin3, Pin3, Pin4, Pin4,
		East,
	)
	decomps := DecomposeWin(concealed, 0, East)
	hasStandard, hasSevenPairs := false, false
	for _, d := range decomps {
		switch d.Shape {
		case ShapeStandard:
			hasStandard = true
		case ShapeSevenPairs:
			hasSevenPairs = true
		}
	}
	if !hasStandard || !hasSevenPairs {
		t.Fatalf("expected both standard and seven-pairs decompositions, standard=%v sevenPairs=%v", hasStandard, hasSevenPairs)
	}
}

func TestDecomposeWin_SevenPairsNeedsDistinctPairs(t *testing.T) {
	// 同种四张不能拆成两个对子
	concealed := counts34(
		Man2, Man2, Man2, Man2,
		Pin3, Pin3, Pin5, Pin5,
		So7, So7, East, East,
		South,
	)
	for _, d := range DecomposeWin(concealed, 0, South) {
		if d.Shape == ShapeSevenPairs {
			t.Fatalf("four of a kind must not count as two pairs")
		}
	}
}

func TestDecomposeWin_MeldCountExcludesSpecialShapes(t *testing.T) {
	// 有副露时不存在七对子/国士拆法
	concealed := counts34(
		Man1, Man9, Pin1, Pin9, So1, So9,
		East, South, West, North,
	)
	for _, d := range DecomposeWin(concealed, 1, Man1) {
		if d.Shape != ShapeStandard {
			t.Fatalf("with melds only standard shape allowed, got %v", d.Shape)
		}
	}
}

func TestListWaits_Chiitoi(t *testing.T) {
	concealed := counts34(
		Man1, Man1, Man2, Man2, Man3, Man3,
		Pin1, Pin1, Pin2, Pin2,
		So1, So1, East,
	)
	waits := ListWaits(concealed, 0)
	if len(waits) != 1 || waits[0] != East {
		t.Fatalf("chiitoi waits expected [East], got %v", waits)
	}
}

func TestListWaits_Kokushi13(t *testing.T) {
	concealed := counts34(
		Man1, Man9, Pin1, Pin9, So1, So9,
		East, South, West, North,
		White, Green, Red,
	)
	waits := ListWaits(concealed, 0)
	if len(waits) != 13 {
		t.Fatalf("kokushi 13-way wait expected 13 waits, got %d: %v", len(waits), waits)
	}
}

func TestListWaits_KokushiSingleWait(t *testing.T) {
	// 一对十二单：只听缺的那一种
	concealed := counts34(
		Man1, Man1, Man9, Pin1, Pin9, So1, So9,
		East, South, West, North,
		White, Green,
	)
	waits := ListWaits(concealed, 0)
	if len(waits) != 1 || waits[0] != Red {
		t.Fatalf("kokushi single wait expected [Red], got %v", waits)
	}
}

func TestListDiscardWaits(t *testing.T) {
	// 打 So1 后听 Man6/Man9
	concealed := counts34(
		Man1, Man2, Man3,
		Pin1, Pin2, Pin3,
		So1, So2, So3,
		Man7, Man8,
		East, East,
		So1,
	)
	result := ListDiscardWaits(concealed, 0)
	waits, ok := result[So1]
	if !ok {
		t.Fatalf("expected discard option So1, got %v", result)
	}
	hasMan6, hasMan9 := false, false
	for _, w := range waits {
		if w == Man6 {
			hasMan6 = true
		}
		if w == Man9 {
			hasMan9 = true
		}
	}
	if !hasMan6 || !hasMan9 {
		t.Fatalf("discard So1 expected waits Man6+Man9, got %v", waits)
	}
}

func TestSearcher_CachedWaits(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	concealed := counts34(
		Man1, Man2, Man3,
		Pin1, Pin2, Pin3,
		So1, So2, So3,
		Man7, Man8,
		East, East,
	)
	first := s.Waits(concealed, 0)
	second := s.Waits(concealed, 0)
	if len(first) != len(second) {
		t.Fatalf("cached waits mismatch: %v vs %v", first, second)
	}
	if !s.IsTenpai(concealed, 0) {
		t.Fatalf("hand should be tenpai")
	}
}

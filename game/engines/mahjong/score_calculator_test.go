package mahjong

import "testing"

func TestRoundUpTo100(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0}, {1, 100}, {99, 100}, {100, 100}, {101, 200}, {1920, 2000}, {7700, 7700},
	}
	for _, c := range cases {
		got := roundUpTo100(c.in)
		if got != c.want {
			t.Fatalf("roundUpTo100(%d) = %d, want %d", c.in, got, c.want)
		}
		if got < c.in {
			t.Fatalf("roundUpTo100(%d) = %d must not shrink", c.in, got)
		}
		// 幂等
		if roundUpTo100(got) != got {
			t.Fatalf("roundUpTo100 not idempotent at %d", got)
		}
		if c.in%100 == 0 && got != c.in {
			t.Fatalf("multiples of 100 must be fixed points, %d -> %d", c.in, got)
		}
	}
}

func TestBasePoints(t *testing.T) {
	cases := []struct {
		fan, fu, want int
	}{
		{1, 30, 240},
		{2, 25, 400},
		{3, 70, 2000}, // 切上满贯封顶
		{4, 30, 1920},
		{5, 30, 2000},  // 满贯
		{6, 30, 3000},  // 跳满
		{7, 30, 3000},
		{8, 30, 4000},  // 倍满
		{10, 30, 4000},
		{11, 30, 6000}, // 三倍满
		{13, 30, 8000}, // 累计役满
		{-1, 25, 8000},
		{-2, 25, 16000},
	}
	for _, c := range cases {
		if got := basePoints(c.fan, c.fu); got != c.want {
			t.Fatalf("basePoints(%d, %d) = %d, want %d", c.fan, c.fu, got, c.want)
		}
	}
}

func paymentSum(p [4]int) int {
	return p[0] + p[1] + p[2] + p[3]
}

func TestCalculatePoints_DealerRon(t *testing.T) {
	situ := &Situation{DealerIndex: 0, Honba: 2, RiichiSticks: 1}
	result := CalculatePoints(5, 30, 0, true, 2, situ)

	// 庄家满贯 12000 + 本场 600，供托 1000 只进不出
	if result.Payments[2] != -12600 {
		t.Fatalf("loser payment expected -12600, got %d", result.Payments[2])
	}
	if result.Payments[0] != 12600+1000 {
		t.Fatalf("winner income expected 13600, got %d", result.Payments[0])
	}
	if paymentSum(result.Payments) != 1000*situ.RiichiSticks {
		t.Fatalf("payment sum must equal riichi stick pot, got %d", paymentSum(result.Payments))
	}
}

func TestCalculatePoints_NonDealerTsumo(t *testing.T) {
	situ := &Situation{DealerIndex: 0, Honba: 1, RiichiSticks: 0}
	result := CalculatePoints(5, 30, 2, false, -1, situ)

	// 子家满贯自摸：庄付 4000、散家各 2000，本场每家 +100
	if result.Payments[0] != -4100 {
		t.Fatalf("dealer payment expected -4100, got %d", result.Payments[0])
	}
	if result.Payments[1] != -2100 || result.Payments[3] != -2100 {
		t.Fatalf("non-dealer payments expected -2100 each, got %d/%d", result.Payments[1], result.Payments[3])
	}
	if result.Payments[2] != 8300 {
		t.Fatalf("winner income expected 8300, got %d", result.Payments[2])
	}
	if paymentSum(result.Payments) != 0 {
		t.Fatalf("tsumo payments must be zero-sum, got %d", paymentSum(result.Payments))
	}
}

func TestCalculatePoints_NonDealerRonLowHand(t *testing.T) {
	situ := &Situation{DealerIndex: 1, Honba: 0, RiichiSticks: 0}
	result := CalculatePoints(1, 30, 3, true, 0, situ)

	// 1 番 30 符子家荣和 1000 点
	if result.Payments[3] != 1000 || result.Payments[0] != -1000 {
		t.Fatalf("expected 1000/-1000, got %d/%d", result.Payments[3], result.Payments[0])
	}
	if paymentSum(result.Payments) != 0 {
		t.Fatalf("ron payments must be zero-sum, got %d", paymentSum(result.Payments))
	}
}

func TestTenpaiPayments(t *testing.T) {
	cases := []struct {
		tenpai [4]bool
		want   [4]int
	}{
		{[4]bool{true, false, false, false}, [4]int{3000, -1000, -1000, -1000}},
		{[4]bool{true, true, false, false}, [4]int{1500, 1500, -1500, -1500}},
		{[4]bool{true, true, true, false}, [4]int{1000, 1000, 1000, -3000}},
		{[4]bool{false, false, false, false}, [4]int{0, 0, 0, 0}},
		{[4]bool{true, true, true, true}, [4]int{0, 0, 0, 0}},
	}
	for _, c := range cases {
		got := TenpaiPayments(c.tenpai)
		if got != c.want {
			t.Fatalf("TenpaiPayments(%v) = %v, want %v", c.tenpai, got, c.want)
		}
		if paymentSum(got) != 0 {
			t.Fatalf("tenpai payments must be zero-sum, got %v", got)
		}
	}
}

func TestNagashiPayments(t *testing.T) {
	// 子家流局满贯：庄付 4000、散家各 2000
	got := NagashiPayments(2, 0)
	want := [4]int{-4000, -2000, 8000, -2000}
	if got != want {
		t.Fatalf("NagashiPayments(2, dealer 0) = %v, want %v", got, want)
	}

	// 庄家流局满贯：每家 4000
	got = NagashiPayments(0, 0)
	want = [4]int{12000, -4000, -4000, -4000}
	if got != want {
		t.Fatalf("NagashiPayments(0, dealer 0) = %v, want %v", got, want)
	}
	if paymentSum(got) != 0 {
		t.Fatalf("nagashi payments must be zero-sum, got %v", got)
	}
}

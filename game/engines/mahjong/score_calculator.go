package mahjong

// calculateFu 符数计算
// 七对子与国士固定 25 符，平和自摸 20 荣和 30，其余从 20 符底开始累加
func calculateFu(ctx *winContext) int {
	switch ctx.decomp.Shape {
	case ShapeSevenPairs, ShapeKokushi, ShapeKokushi13:
		return 25
	}

	if isPinfuShape(ctx) {
		if ctx.env.Tsumo {
			return 20
		}
		return 30
	}

	fu := 20
	for _, m := range ctx.melds {
		if m.isRun {
			continue
		}
		v := 2
		if m.concealed {
			v *= 2
		}
		if m.tile.IsYaojiu() {
			v *= 2
		}
		if m.isKan {
			v *= 4
		}
		fu += v
	}

	if ctx.pair.IsDragon() {
		fu += 2
	}
	if ctx.pair == ctx.env.RoundWind.WindTile() {
		fu += 2
	}
	if ctx.pair == ctx.env.SeatWind.WindTile() {
		fu += 2
	}

	// 坎张、边张、单骑听 +2；两面和双碰不加
	if ctx.decomp.WaitBits&(WaitKanchan|WaitPenchan|WaitTanki) != 0 &&
		ctx.decomp.WaitBits&(WaitRyanmen|WaitShanpon) == 0 {
		fu += 2
	}

	if ctx.env.Tsumo {
		fu += 2
	}

	fu = (fu + 9) / 10 * 10
	if !ctx.env.Tsumo && ctx.menzen {
		fu += 10
	}
	// 副露平和形荣和按 30 符计
	if fu == 20 {
		fu = 30
	}
	return fu
}

// isPinfuShape 平和形判定（符数用，与役种判定同口径）
func isPinfuShape(ctx *winContext) bool {
	if ctx.decomp.Shape != ShapeStandard || !ctx.menzen {
		return false
	}
	for _, m := range ctx.melds {
		if !m.isRun {
			return false
		}
	}
	if ctx.isYakuhaiPair(ctx.pair) {
		return false
	}
	return ctx.decomp.WaitBits&WaitRyanmen != 0
}

// roundUpTo100 点数向上取整到百位
func roundUpTo100(v int) int {
	return (v + 99) / 100 * 100
}

// basePoints 基本点
// 负番按役满倍数计，4 番及以下按 符 x 2^(2+番) 封顶 2000（满贯）
func basePoints(fan, fu int) int {
	if fan < 0 {
		return 8000 * -fan
	}
	switch {
	case fan >= 13:
		return 8000 // 累计役满
	case fan >= 11:
		return 6000 // 三倍满
	case fan >= 8:
		return 4000 // 倍满
	case fan >= 6:
		return 3000 // 跳满
	case fan == 5:
		return 2000 // 满贯
	}
	base := fu << (2 + fan)
	if base > 2000 {
		base = 2000
	}
	return base
}

// PointResult 一次和牌的支付方案
type PointResult struct {
	Base     int
	Payments [4]int // 每个座位的点数变动，含本场与供托
	Total    int    // 和牌者收入合计
}

// CalculatePoints 计算支付方案
// 荣和时铳家全额支付；自摸时庄家三家均摊、子家庄付双倍
// 本场每本荣和 +300、自摸每家 +100，供托全归和牌者
func CalculatePoints(fan, fu int, winnerSeat int, hasLoser bool, loserSeat int, situation *Situation) *PointResult {
	base := basePoints(fan, fu)
	isDealer := winnerSeat == situation.DealerIndex
	result := &PointResult{Base: base}

	if hasLoser {
		var amount int
		if isDealer {
			amount = roundUpTo100(base * 6)
		} else {
			amount = roundUpTo100(base * 4)
		}
		amount += 300 * situation.Honba
		result.Payments[loserSeat] -= amount
		result.Payments[winnerSeat] += amount
	} else {
		for seat := 0; seat < 4; seat++ {
			if seat == winnerSeat {
				continue
			}
			var amount int
			switch {
			case isDealer:
				amount = roundUpTo100(base * 2)
			case seat == situation.DealerIndex:
				amount = roundUpTo100(base * 2)
			default:
				amount = roundUpTo100(base)
			}
			amount += 100 * situation.Honba
			result.Payments[seat] -= amount
			result.Payments[winnerSeat] += amount
		}
	}

	result.Payments[winnerSeat] += 1000 * situation.RiichiSticks
	result.Total = result.Payments[winnerSeat]
	return result
}

// TenpaiPayments 荒牌流局听牌费：总额 3000，听牌家平分，不听家平摊
func TenpaiPayments(tenpai [4]bool) [4]int {
	var payments [4]int
	n := 0
	for _, t := range tenpai {
		if t {
			n++
		}
	}
	if n == 0 || n == 4 {
		return payments
	}
	for seat, t := range tenpai {
		if t {
			payments[seat] = 3000 / n
		} else {
			payments[seat] = -3000 / (4 - n)
		}
	}
	return payments
}

// NagashiPayments 流局满贯：按满贯自摸支付，不计本场
func NagashiPayments(winnerSeat int, dealerIndex int) [4]int {
	var payments [4]int
	isDealer := winnerSeat == dealerIndex
	for seat := 0; seat < 4; seat++ {
		if seat == winnerSeat {
			continue
		}
		switch {
		case isDealer:
			payments[seat] = -4000
		case seat == dealerIndex:
			payments[seat] = -4000
		default:
			payments[seat] = -2000
		}
		payments[winnerSeat] -= payments[seat]
	}
	return payments
}

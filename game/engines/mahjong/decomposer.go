package mahjong

// 手牌拆解：把 13/14 张手牌拆成 4 面子 + 1 雀头，或七对子、国士无双特殊型
// 搜索本身忽略赤宝牌，赤牌只在算点时作为计数加成

type DecompShape int

const (
	ShapeStandard   DecompShape = iota // 标准型：4 面子 + 雀头
	ShapeSevenPairs                    // 七对子
	ShapeKokushi                       // 国士无双
	ShapeKokushi13                     // 国士无双十三面
)

type DecompMeldKind int

const (
	DecompTriplet DecompMeldKind = iota // 刻子
	DecompRun                          // 顺子
)

// DecompMeld 拆解出的手中面子（不含副露）
type DecompMeld struct {
	Kind       DecompMeldKind
	Tile       TileType // 刻子的牌；顺子的起点
	IsWaitMeld bool     // 该面子由所等的牌补全
}

// 听牌形态位标记
const (
	WaitRyanmen = 1 << iota // 两面
	WaitKanchan             // 坎张
	WaitShanpon             // 双碰
	WaitPenchan             // 边张
	WaitTanki               // 单骑
)

// Decomposition 一种拆解结果
// HasWait 表示留了一个等待位（听牌/和牌查询），HasDiscard 表示留了一个打出位
type Decomposition struct {
	Shape DecompShape

	Melds   []DecompMeld
	Pair    TileType
	HasPair bool

	Wait     TileType
	HasWait  bool
	WaitBits int

	Discard    TileType
	HasDiscard bool
}

type splitContext struct {
	counts       *[TileTypeCount]int
	needMelds    int
	allowWait    bool
	allowDiscard bool

	melds      []DecompMeld
	pair       TileType
	hasPair    bool
	wait       TileType
	hasWait    bool
	waitBits   int
	discard    TileType
	hasDiscard bool

	out []*Decomposition
}

// decomposeStandard 标准型回溯搜索
// counts 不含所等的牌；needMelds = 4 - 副露数
func decomposeStandard(counts [TileTypeCount]int, needMelds int, allowWait, allowDiscard bool) []*Decomposition {
	ctx := &splitContext{
		counts:       &counts,
		needMelds:    needMelds,
		allowWait:    allowWait,
		allowDiscard: allowDiscard,
		melds:        make([]DecompMeld, 0, 4),
	}
	ctx.dfs(0)
	return ctx.out
}

func (ctx *splitContext) emit() {
	if !ctx.hasPair || len(ctx.melds) != ctx.needMelds {
		return
	}
	if ctx.allowWait != ctx.hasWait || ctx.allowDiscard != ctx.hasDiscard {
		return
	}
	d := &Decomposition{
		Shape:      ShapeStandard,
		Melds:      append([]DecompMeld(nil), ctx.melds...),
		Pair:       ctx.pair,
		HasPair:    true,
		Wait:       ctx.wait,
		HasWait:    ctx.hasWait,
		WaitBits:   ctx.waitBits,
		Discard:    ctx.discard,
		HasDiscard: ctx.hasDiscard,
	}
	ctx.out = append(ctx.out, d)
}

func (ctx *splitContext) dfs(idx int) {
	for idx < TileTypeCount && ctx.counts[idx] == 0 {
		idx++
	}
	if idx == TileTypeCount {
		ctx.emit()
		return
	}
	t := TileType(idx)
	c := ctx.counts

	// 刻子
	if c[idx] >= 3 && len(ctx.melds) < ctx.needMelds {
		c[idx] -= 3
		ctx.melds = append(ctx.melds, DecompMeld{Kind: DecompTriplet, Tile: t})
		ctx.dfs(idx)
		ctx.melds = ctx.melds[:len(ctx.melds)-1]
		c[idx] += 3
	}

	// 双碰等待：两张等第三张
	if ctx.allowWait && !ctx.hasWait && c[idx] >= 2 && len(ctx.melds) < ctx.needMelds {
		c[idx] -= 2
		ctx.melds = append(ctx.melds, DecompMeld{Kind: DecompTriplet, Tile: t, IsWaitMeld: true})
		ctx.hasWait = true
		ctx.wait = t
		ctx.waitBits |= WaitShanpon
		ctx.dfs(idx)
		ctx.waitBits &^= WaitShanpon
		ctx.hasWait = false
		ctx.melds = ctx.melds[:len(ctx.melds)-1]
		c[idx] += 2
	}

	number := t.Number()

	// 顺子
	if number >= 1 && number <= 7 && c[idx+1] > 0 && c[idx+2] > 0 && len(ctx.melds) < ctx.needMelds {
		c[idx]--
		c[idx+1]--
		c[idx+2]--
		ctx.melds = append(ctx.melds, DecompMeld{Kind: DecompRun, Tile: t})
		ctx.dfs(idx)
		ctx.melds = ctx.melds[:len(ctx.melds)-1]
		c[idx]++
		c[idx+1]++
		c[idx+2]++
	}

	// 顺子等待
	if ctx.allowWait && !ctx.hasWait && number >= 1 && len(ctx.melds) < ctx.needMelds {
		// 坎张：t, t+2 等 t+1
		if number <= 7 && c[idx+2] > 0 {
			c[idx]--
			c[idx+2]--
			ctx.pushRunWait(t, t+1, WaitKanchan)
			ctx.dfs(idx)
			ctx.popRunWait(WaitKanchan)
			c[idx]++
			c[idx+2]++
		}
		if number <= 8 && c[idx+1] > 0 {
			// t, t+1 等 t+2：12 等 3 为边张，其余两面
			if number <= 7 {
				bits := WaitRyanmen
				if number == 1 {
					bits = WaitPenchan
				}
				c[idx]--
				c[idx+1]--
				ctx.pushRunWait(t, t+2, bits)
				ctx.dfs(idx)
				ctx.popRunWait(bits)
				c[idx]++
				c[idx+1]++
			}
			// t, t+1 等 t-1：89 等 7 为边张，其余两面
			if number >= 2 {
				bits := WaitRyanmen
				if number == 8 {
					bits = WaitPenchan
				}
				c[idx]--
				c[idx+1]--
				ctx.pushRunWait(t-1, t-1, bits)
				ctx.dfs(idx)
				ctx.popRunWait(bits)
				c[idx]++
				c[idx+1]++
			}
		}
	}

	// 单骑等待：雀头位等最后一张
	if ctx.allowWait && !ctx.hasWait && !ctx.hasPair {
		c[idx]--
		ctx.hasPair = true
		ctx.pair = t
		ctx.hasWait = true
		ctx.wait = t
		ctx.waitBits |= WaitTanki
		ctx.dfs(idx)
		ctx.waitBits &^= WaitTanki
		ctx.hasWait = false
		ctx.hasPair = false
		c[idx]++
	}

	// 雀头
	if !ctx.hasPair && c[idx] >= 2 {
		c[idx] -= 2
		ctx.hasPair = true
		ctx.pair = t
		ctx.dfs(idx)
		ctx.hasPair = false
		c[idx] += 2
	}

	// 打出位：这张牌不参与拆解
	if ctx.allowDiscard && !ctx.hasDiscard {
		c[idx]--
		ctx.hasDiscard = true
		ctx.discard = t
		ctx.dfs(idx)
		ctx.hasDiscard = false
		c[idx]++
	}
}

// pushRunWait 顺子以 start 开头，等 wait
func (ctx *splitContext) pushRunWait(start, wait TileType, bits int) {
	ctx.melds = append(ctx.melds, DecompMeld{Kind: DecompRun, Tile: start, IsWaitMeld: true})
	ctx.hasWait = true
	ctx.wait = wait
	ctx.waitBits |= bits
}

func (ctx *splitContext) popRunWait(bits int) {
	ctx.waitBits &^= bits
	ctx.hasWait = false
	ctx.melds = ctx.melds[:len(ctx.melds)-1]
}

var kokushiTileTypes = []TileType{Man1, Man9, Pin1, Pin9, So1, So9, East, South, West, North, White, Green, Red}

func isKokushiType(t TileType) bool {
	return t.IsYaojiu()
}

// DecomposeWin 枚举 "13 张门前手牌 + 所和的牌" 的全部和牌拆解
// concealed 不含所和的牌；meldCount 为副露数（拔北不计）
func DecomposeWin(concealed [TileTypeCount]int, meldCount int, winType TileType) []*Decomposition {
	var result []*Decomposition
	for _, d := range decomposeStandard(concealed, 4-meldCount, true, false) {
		if d.Wait == winType {
			result = append(result, d)
		}
	}
	if meldCount > 0 {
		return result
	}

	// 七对子：加上所和的牌后恰好 7 个互不相同的对子
	full := concealed
	full[winType]++
	if sevenDistinctPairs(&full) {
		result = append(result, &Decomposition{
			Shape:    ShapeSevenPairs,
			Wait:     winType,
			HasWait:  true,
			WaitBits: WaitTanki,
		})
	}

	// 国士无双：十三种幺九齐备，其中一种成对
	if kok, thirteen := kokushiWin(&concealed, winType); kok {
		shape := ShapeKokushi
		if thirteen {
			shape = ShapeKokushi13
		}
		result = append(result, &Decomposition{
			Shape:    shape,
			Wait:     winType,
			HasWait:  true,
			WaitBits: WaitTanki,
		})
	}
	return result
}

func sevenDistinctPairs(counts *[TileTypeCount]int) bool {
	pairs := 0
	for _, c := range counts {
		switch c {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// kokushiWin 返回 (是否国士和牌, 是否十三面)
// 十三面：和牌前手中已经十三种各一张，所和的牌是其中任意一种
func kokushiWin(concealed *[TileTypeCount]int, winType TileType) (bool, bool) {
	if !isKokushiType(winType) {
		return false, false
	}
	total := 0
	for t := TileType(0); t < TileTypeCount; t++ {
		c := concealed[t]
		if c == 0 {
			continue
		}
		if !isKokushiType(t) || c > 2 {
			return false, false
		}
		total += c
	}
	if total != 13 {
		return false, false
	}
	full := *concealed
	full[winType]++
	for _, t := range kokushiTileTypes {
		if full[t] == 0 {
			return false, false
		}
	}
	return true, concealed[winType] >= 1
}

// ListWaits 听牌枚举：手牌数 ≡ 1 (mod 3) 时返回全部所听的牌
func ListWaits(concealed [TileTypeCount]int, meldCount int) []TileType {
	seen := make(map[TileType]struct{})
	for _, d := range decomposeStandard(concealed, 4-meldCount, true, false) {
		seen[d.Wait] = struct{}{}
	}
	if meldCount == 0 {
		// 七对子听牌：六对加一张单牌
		if single, ok := sevenPairsWait(&concealed); ok {
			seen[single] = struct{}{}
		}
		for _, w := range kokushiWaits(&concealed) {
			seen[w] = struct{}{}
		}
	}
	waits := make([]TileType, 0, len(seen))
	for t := TileType(0); t < TileTypeCount; t++ {
		if _, ok := seen[t]; ok {
			waits = append(waits, t)
		}
	}
	return waits
}

func sevenPairsWait(counts *[TileTypeCount]int) (TileType, bool) {
	pairs := 0
	single := TileType(-1)
	for t := TileType(0); t < TileTypeCount; t++ {
		switch counts[t] {
		case 0:
		case 1:
			if single >= 0 {
				return 0, false
			}
			single = t
		case 2:
			pairs++
		default:
			return 0, false
		}
	}
	if pairs == 6 && single >= 0 {
		return single, true
	}
	return 0, false
}

func kokushiWaits(counts *[TileTypeCount]int) []TileType {
	total := 0
	hasPair := false
	for t := TileType(0); t < TileTypeCount; t++ {
		c := counts[t]
		if c == 0 {
			continue
		}
		if !isKokushiType(t) || c > 2 {
			return nil
		}
		if c == 2 {
			if hasPair {
				return nil
			}
			hasPair = true
		}
		total += c
	}
	if total != 13 {
		return nil
	}
	var missing []TileType
	for _, t := range kokushiTileTypes {
		if counts[t] == 0 {
			missing = append(missing, t)
		}
	}
	if hasPair {
		// 一对十二单：只听缺的那一种
		if len(missing) == 1 {
			return missing
		}
		return nil
	}
	// 十三种各一张：十三面听
	if len(missing) == 0 {
		return append([]TileType(nil), kokushiTileTypes...)
	}
	return nil
}

// ListDiscardWaits 打哪张听什么：手牌数 ≡ 2 (mod 3) 时返回 打出的牌 -> 听牌列表
func ListDiscardWaits(concealed [TileTypeCount]int, meldCount int) map[TileType][]TileType {
	result := make(map[TileType][]TileType)
	for _, d := range decomposeStandard(concealed, 4-meldCount, true, true) {
		appendWait(result, d.Discard, d.Wait)
	}
	if meldCount == 0 {
		// 特殊型走减一张再查听的慢路径
		for t := TileType(0); t < TileTypeCount; t++ {
			if concealed[t] == 0 {
				continue
			}
			next := concealed
			next[t]--
			if single, ok := sevenPairsWait(&next); ok {
				appendWait(result, t, single)
			}
			for _, w := range kokushiWaits(&next) {
				appendWait(result, t, w)
			}
		}
	}
	return result
}

func appendWait(m map[TileType][]TileType, discard, wait TileType) {
	for _, w := range m[discard] {
		if w == wait {
			return
		}
	}
	m[discard] = append(m[discard], wait)
}

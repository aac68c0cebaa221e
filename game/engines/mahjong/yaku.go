package mahjong

// Yaku 役种
// Fan 为负数表示役满倍数（-1 役满，-2 两倍役满），累计线性叠加
type Yaku int

const (
	// 场况役
	YakuTenhou Yaku = iota // 天和：庄家配牌即和
	YakuChihou             // 地和：子家第一巡无鸣牌自摸
	YakuRiichi             // 立直
	YakuWRiichi            // 两立直：第一巡无鸣牌立直
	YakuIppatsu            // 一发
	YakuChankan            // 抢杠
	YakuRinshan            // 岭上开花
	YakuHaitei             // 海底摸月
	YakuHoutei             // 河底捞鱼
	YakuTsumo              // 门前清自摸和

	// 役牌
	YakuYakuhaiWhite // 役牌 白
	YakuYakuhaiGreen // 役牌 发
	YakuYakuhaiRed   // 役牌 中
	YakuDoubleWind   // 连风牌（场风与自风相同的刻子）
	YakuRoundWind    // 场风牌
	YakuSeatWind     // 自风牌

	// 手役
	YakuPinfu         // 平和
	YakuIipeiko       // 一杯口
	YakuRyanpeiko     // 二杯口
	YakuTanyao        // 断幺九
	YakuSanshokuDoukou // 三色同刻
	YakuSankantsu     // 三杠子
	YakuSuukantsu     // 四杠子（役满）
	YakuToitoi        // 对对和
	YakuChiitoi       // 七对子
	YakuSananko       // 三暗刻
	YakuSuuankou      // 四暗刻（役满）
	YakuSuuankouTanki // 四暗刻单骑（两倍役满）
	YakuShousangen    // 小三元
	YakuDaisangen     // 大三元（役满）
	YakuHonroto       // 混老头
	YakuChinroto      // 清老头（役满）
	YakuChanta        // 混全带幺九
	YakuJunchan       // 纯全带幺九
	YakuIttsu         // 一气通贯
	YakuSanshoku      // 三色同顺
	YakuHonitsu       // 混一色
	YakuChinitsu      // 清一色
	YakuTsuuiisou     // 字一色（役满）
	YakuShousushi     // 小四喜（役满）
	YakuDaisushi      // 大四喜（两倍役满）
	YakuRyuuiisou     // 绿一色（役满）
	YakuChuuren       // 九莲宝灯（役满）
	YakuJunseiChuuren // 纯正九莲宝灯（两倍役满）
	YakuKokushi       // 国士无双（役满）
	YakuKokushi13     // 国士无双十三面（两倍役满）

	// 计数加成（不算起和役）
	YakuDora    // 宝牌
	YakuAkaDora // 赤宝牌
	YakuBeiDora // 拔北宝牌
	YakuUraDora // 里宝牌
)

var yakuNames = map[Yaku]string{
	YakuTenhou: "天和", YakuChihou: "地和",
	YakuRiichi: "立直", YakuWRiichi: "两立直", YakuIppatsu: "一发",
	YakuChankan: "抢杠", YakuRinshan: "岭上开花",
	YakuHaitei: "海底摸月", YakuHoutei: "河底捞鱼", YakuTsumo: "门前清自摸和",
	YakuYakuhaiWhite: "役牌 白", YakuYakuhaiGreen: "役牌 发", YakuYakuhaiRed: "役牌 中",
	YakuDoubleWind: "连风牌", YakuRoundWind: "场风牌", YakuSeatWind: "自风牌",
	YakuPinfu: "平和", YakuIipeiko: "一杯口", YakuRyanpeiko: "二杯口",
	YakuTanyao: "断幺九", YakuSanshokuDoukou: "三色同刻",
	YakuSankantsu: "三杠子", YakuSuukantsu: "四杠子",
	YakuToitoi: "对对和", YakuChiitoi: "七对子",
	YakuSananko: "三暗刻", YakuSuuankou: "四暗刻", YakuSuuankouTanki: "四暗刻单骑",
	YakuShousangen: "小三元", YakuDaisangen: "大三元",
	YakuHonroto: "混老头", YakuChinroto: "清老头",
	YakuChanta: "混全带幺九", YakuJunchan: "纯全带幺九",
	YakuIttsu: "一气通贯", YakuSanshoku: "三色同顺",
	YakuHonitsu: "混一色", YakuChinitsu: "清一色",
	YakuTsuuiisou: "字一色", YakuShousushi: "小四喜", YakuDaisushi: "大四喜",
	YakuRyuuiisou: "绿一色", YakuChuuren: "九莲宝灯", YakuJunseiChuuren: "纯正九莲宝灯",
	YakuKokushi: "国士无双", YakuKokushi13: "国士无双十三面",
	YakuDora: "宝牌", YakuAkaDora: "赤宝牌", YakuBeiDora: "拔北", YakuUraDora: "里宝牌",
}

func (y Yaku) String() string {
	if s, ok := yakuNames[y]; ok {
		return s
	}
	return "未知役"
}

// YakuEntry 一条成立的役
type YakuEntry struct {
	Yaku      Yaku
	Fan       int  // 负数为役满倍数
	BonusOnly bool // 宝牌类计数加成，不能作为起和役
}

// WinResult 和牌结果
type WinResult struct {
	Fan    int
	Fu     int
	Yaku   []YakuEntry
	Decomp *Decomposition
}

// CardSource 和牌/荣和的那张牌的来源
type CardSource int

const (
	SourceNormal  CardSource = iota
	SourceHaitei             // 海底（最后一张自摸）
	SourceHoutei             // 河底（最后一张舍张）
	SourceRinshan            // 岭上
	SourceRobKan             // 抢杠
)

// WinEnv 和牌判定环境，每次查询由引擎重建
type WinEnv struct {
	RoundWind         Wind
	SeatWind          Wind
	DoraIndicators    []Tile
	UraDoraIndicators []Tile
	Tsumo             bool
	Source            CardSource
	Riichi            RiichiType
	Ippatsu           bool
	Tianhu            bool // 天和条件成立（庄家首巡无鸣牌）
	Dihu              bool // 地和条件成立（子家首巡无鸣牌）
	CountRed          bool // 是否计赤宝牌
}

// meldView 统一视角的面子（副露 + 手内拆解）
type meldView struct {
	isRun     bool
	tile      TileType // 刻子的牌；顺子起点
	isKan     bool
	concealed bool // 暗刻/暗杠。荣和双碰补全的刻子按明刻计
	isWaitSet bool // 和牌所在的面子
}

// winContext 针对一个拆解的完整判定上下文
type winContext struct {
	decomp  *Decomposition
	melds   []meldView // 标准型固定 4 个
	pair    TileType
	counts  [TileTypeCount]int // 全部牌（含副露、杠第四张、所和的牌），不含拔北
	allTiles []Tile            // 同上的实际牌，用于宝牌计数
	winType TileType
	menzen  bool
	beiTiles []Tile
	env     *WinEnv
}

// yakuChecker 每个役种一个检查器，命中返回对应条目
type yakuChecker func(ctx *winContext) []YakuEntry

// riichiYakuRegistry 役种判定表，顺序即展示顺序
var riichiYakuRegistry = []yakuChecker{
	checkTenhouChihou,
	checkRiichiGroup,
	checkChankan,
	checkRinshan,
	checkHaiteiHoutei,
	checkMenzenTsumo,
	checkYakuhai,
	checkPinfu,
	checkPeiko,
	checkTanyao,
	checkSanshokuDoukou,
	checkKanYaku,
	checkToitoi,
	checkChiitoi,
	checkAnkoYaku,
	checkSangen,
	checkRoutou,
	checkChantaGroup,
	checkIttsu,
	checkSanshokuDoujun,
	checkItsu,
	checkSuushi,
	checkRyuuiisou,
	checkChuuren,
	checkKokushi,
}

// evaluateYaku 对单个拆解求全部役种，末尾追加宝牌类加成，再做役满压制
func evaluateYaku(ctx *winContext) []YakuEntry {
	var entries []YakuEntry
	for _, checker := range riichiYakuRegistry {
		entries = append(entries, checker(ctx)...)
	}
	entries = append(entries, doraEntries(ctx)...)

	// 役满压制：出现负番后，非役满役与加成全部作废
	hasYakuman := false
	for _, e := range entries {
		if e.Fan < 0 {
			hasYakuman = true
			break
		}
	}
	if hasYakuman {
		kept := entries[:0]
		for _, e := range entries {
			if e.Fan < 0 {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	return entries
}

func one(y Yaku, fan int) []YakuEntry {
	return []YakuEntry{{Yaku: y, Fan: fan}}
}

func checkTenhouChihou(ctx *winContext) []YakuEntry {
	if !ctx.env.Tsumo {
		return nil
	}
	if ctx.env.Tianhu {
		return one(YakuTenhou, -1)
	}
	if ctx.env.Dihu {
		return one(YakuChihou, -1)
	}
	return nil
}

func checkRiichiGroup(ctx *winContext) []YakuEntry {
	var entries []YakuEntry
	switch ctx.env.Riichi {
	case RiichiNormal:
		entries = append(entries, YakuEntry{Yaku: YakuRiichi, Fan: 1})
	case RiichiDouble:
		entries = append(entries, YakuEntry{Yaku: YakuWRiichi, Fan: 2})
	default:
		return nil
	}
	if ctx.env.Ippatsu {
		entries = append(entries, YakuEntry{Yaku: YakuIppatsu, Fan: 1})
	}
	return entries
}

func checkChankan(ctx *winContext) []YakuEntry {
	if ctx.env.Source == SourceRobKan && !ctx.env.Tsumo {
		return one(YakuChankan, 1)
	}
	return nil
}

func checkRinshan(ctx *winContext) []YakuEntry {
	if ctx.env.Source == SourceRinshan && ctx.env.Tsumo {
		return one(YakuRinshan, 1)
	}
	return nil
}

func checkHaiteiHoutei(ctx *winContext) []YakuEntry {
	if ctx.env.Source == SourceHaitei && ctx.env.Tsumo {
		return one(YakuHaitei, 1)
	}
	if ctx.env.Source == SourceHoutei && !ctx.env.Tsumo {
		return one(YakuHoutei, 1)
	}
	return nil
}

func checkMenzenTsumo(ctx *winContext) []YakuEntry {
	if ctx.env.Tsumo && ctx.menzen {
		return one(YakuTsumo, 1)
	}
	return nil
}

func checkYakuhai(ctx *winContext) []YakuEntry {
	var entries []YakuEntry
	roundTile := ctx.env.RoundWind.WindTile()
	seatTile := ctx.env.SeatWind.WindTile()
	for _, m := range ctx.melds {
		if m.isRun {
			continue
		}
		switch m.tile {
		case White:
			entries = append(entries, YakuEntry{Yaku: YakuYakuhaiWhite, Fan: 1})
		case Green:
			entries = append(entries, YakuEntry{Yaku: YakuYakuhaiGreen, Fan: 1})
		case Red:
			entries = append(entries, YakuEntry{Yaku: YakuYakuhaiRed, Fan: 1})
		}
		if m.tile.IsWind() {
			if m.tile == roundTile && m.tile == seatTile {
				entries = append(entries, YakuEntry{Yaku: YakuDoubleWind, Fan: 2})
			} else if m.tile == roundTile {
				entries = append(entries, YakuEntry{Yaku: YakuRoundWind, Fan: 1})
			} else if m.tile == seatTile {
				entries = append(entries, YakuEntry{Yaku: YakuSeatWind, Fan: 1})
			}
		}
	}
	return entries
}

// isYakuhaiPair 平和雀头限制：三元牌、场风、自风都不行
func (ctx *winContext) isYakuhaiPair(t TileType) bool {
	if t.IsDragon() {
		return true
	}
	return t == ctx.env.RoundWind.WindTile() || t == ctx.env.SeatWind.WindTile()
}

func checkPinfu(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard || !ctx.menzen {
		return nil
	}
	for _, m := range ctx.melds {
		if !m.isRun {
			return nil
		}
	}
	if ctx.isYakuhaiPair(ctx.pair) {
		return nil
	}
	if ctx.decomp.WaitBits&WaitRyanmen == 0 {
		return nil
	}
	return one(YakuPinfu, 1)
}

func checkPeiko(ctx *winContext) []YakuEntry {
	if !ctx.menzen || ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	runCount := make(map[TileType]int)
	for _, m := range ctx.melds {
		if m.isRun {
			runCount[m.tile]++
		}
	}
	dup := 0
	for _, c := range runCount {
		dup += c / 2
	}
	switch dup {
	case 1:
		return one(YakuIipeiko, 1)
	case 2:
		return one(YakuRyanpeiko, 3)
	}
	return nil
}

func checkTanyao(ctx *winContext) []YakuEntry {
	for t := TileType(0); t < TileTypeCount; t++ {
		if ctx.counts[t] > 0 && t.IsYaojiu() {
			return nil
		}
	}
	return one(YakuTanyao, 1)
}

func checkSanshokuDoukou(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	for n := 1; n <= 9; n++ {
		got := 0
		for _, m := range ctx.melds {
			if !m.isRun && m.tile.IsNumbered() && m.tile.Number() == n {
				got |= 1 << m.tile.Suit()
			}
		}
		if got == 0b111 {
			return one(YakuSanshokuDoukou, 2)
		}
	}
	return nil
}

func checkKanYaku(ctx *winContext) []YakuEntry {
	kans := 0
	for _, m := range ctx.melds {
		if m.isKan {
			kans++
		}
	}
	switch kans {
	case 3:
		return one(YakuSankantsu, 2)
	case 4:
		return one(YakuSuukantsu, -1)
	}
	return nil
}

func checkToitoi(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	for _, m := range ctx.melds {
		if m.isRun {
			return nil
		}
	}
	return one(YakuToitoi, 2)
}

func checkChiitoi(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape == ShapeSevenPairs {
		return one(YakuChiitoi, 2)
	}
	return nil
}

// concealedTriplets 暗刻数（暗杠计入）
func (ctx *winContext) concealedTriplets() int {
	n := 0
	for _, m := range ctx.melds {
		if !m.isRun && m.concealed {
			n++
		}
	}
	return n
}

func checkAnkoYaku(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	anko := ctx.concealedTriplets()
	switch {
	case anko == 4 && (ctx.decomp.WaitBits&WaitTanki != 0 || ctx.env.Tianhu):
		return one(YakuSuuankouTanki, -2)
	case anko == 4:
		return one(YakuSuuankou, -1)
	case anko == 3:
		return one(YakuSananko, 2)
	}
	return nil
}

func checkSangen(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	triplets := 0
	for _, m := range ctx.melds {
		if !m.isRun && m.tile.IsDragon() {
			triplets++
		}
	}
	if triplets == 3 {
		return one(YakuDaisangen, -1)
	}
	if triplets == 2 && ctx.pair.IsDragon() {
		return one(YakuShousangen, 2)
	}
	return nil
}

// checkRoutou 混老头 / 清老头 / 字一色
func checkRoutou(ctx *winContext) []YakuEntry {
	hasHonor, hasTerminal := false, false
	for t := TileType(0); t < TileTypeCount; t++ {
		if ctx.counts[t] == 0 {
			continue
		}
		if t.IsHonor() {
			hasHonor = true
		} else if t.IsTerminal() {
			hasTerminal = true
		} else {
			return nil
		}
	}
	switch {
	case hasHonor && hasTerminal:
		return one(YakuHonroto, 2)
	case hasTerminal:
		return one(YakuChinroto, -1)
	case hasHonor:
		return one(YakuTsuuiisou, -1)
	}
	return nil
}

// meldHasYaojiu 面子是否带幺九
func meldHasYaojiu(m meldView) bool {
	if m.isRun {
		n := m.tile.Number()
		return n == 1 || n == 7
	}
	return m.tile.IsYaojiu()
}

func checkChantaGroup(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	hasRun := false
	hasHonor := ctx.pair.IsHonor()
	for _, m := range ctx.melds {
		if !meldHasYaojiu(m) {
			return nil
		}
		if m.isRun {
			hasRun = true
		} else if m.tile.IsHonor() {
			hasHonor = true
		}
	}
	if !ctx.pair.IsYaojiu() {
		return nil
	}
	if !hasRun {
		// 全刻子的幺九手由混老头/清老头负责
		return nil
	}
	fan := 1
	if ctx.menzen {
		fan = 2
	}
	if !hasHonor {
		// 纯全带幺九再加一番
		return one(YakuJunchan, fan+1)
	}
	return one(YakuChanta, fan)
}

func checkIttsu(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	for suit := 0; suit < 3; suit++ {
		got := 0
		for _, m := range ctx.melds {
			if m.isRun && m.tile.Suit() == suit {
				switch m.tile.Number() {
				case 1:
					got |= 1
				case 4:
					got |= 2
				case 7:
					got |= 4
				}
			}
		}
		if got == 0b111 {
			fan := 1
			if ctx.menzen {
				fan = 2
			}
			return one(YakuIttsu, fan)
		}
	}
	return nil
}

func checkSanshokuDoujun(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	for n := 1; n <= 7; n++ {
		got := 0
		for _, m := range ctx.melds {
			if m.isRun && m.tile.Number() == n {
				got |= 1 << m.tile.Suit()
			}
		}
		if got == 0b111 {
			fan := 1
			if ctx.menzen {
				fan = 2
			}
			return one(YakuSanshoku, fan)
		}
	}
	return nil
}

// checkItsu 混一色 / 清一色
func checkItsu(ctx *winContext) []YakuEntry {
	suit := -1
	hasHonor := false
	for t := TileType(0); t < TileTypeCount; t++ {
		if ctx.counts[t] == 0 {
			continue
		}
		if t.IsHonor() {
			hasHonor = true
			continue
		}
		if suit == -1 {
			suit = t.Suit()
		} else if suit != t.Suit() {
			return nil
		}
	}
	if suit == -1 {
		// 全字牌，由字一色负责
		return nil
	}
	if hasHonor {
		fan := 2
		if ctx.menzen {
			fan = 3
		}
		return one(YakuHonitsu, fan)
	}
	fan := 5
	if ctx.menzen {
		fan = 6
	}
	return one(YakuChinitsu, fan)
}

func checkSuushi(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard {
		return nil
	}
	windTriplets := 0
	for _, m := range ctx.melds {
		if !m.isRun && m.tile.IsWind() {
			windTriplets++
		}
	}
	if windTriplets == 4 {
		return one(YakuDaisushi, -2)
	}
	if windTriplets == 3 && ctx.pair.IsWind() {
		return one(YakuShousushi, -1)
	}
	return nil
}

var greenTiles = map[TileType]bool{
	So2: true, So3: true, So4: true, So6: true, So8: true, Green: true,
}

func checkRyuuiisou(ctx *winContext) []YakuEntry {
	for t := TileType(0); t < TileTypeCount; t++ {
		if ctx.counts[t] > 0 && !greenTiles[t] {
			return nil
		}
	}
	return one(YakuRyuuiisou, -1)
}

var chuurenPattern = [9]int{3, 1, 1, 1, 1, 1, 1, 1, 3}

func checkChuuren(ctx *winContext) []YakuEntry {
	if ctx.decomp.Shape != ShapeStandard || !ctx.menzen || len(ctx.melds) != 4 {
		return nil
	}
	// 无任何副露（暗杠也不行）且清一色
	for _, m := range ctx.melds {
		if m.isKan {
			return nil
		}
	}
	suit := -1
	for t := TileType(0); t < TileTypeCount; t++ {
		if ctx.counts[t] == 0 {
			continue
		}
		if t.IsHonor() {
			return nil
		}
		if suit == -1 {
			suit = t.Suit()
		} else if suit != t.Suit() {
			return nil
		}
	}
	if suit == -1 {
		return nil
	}
	base := TileType(suit * 9)
	for n := 0; n < 9; n++ {
		if ctx.counts[base+TileType(n)] < chuurenPattern[n] {
			return nil
		}
	}
	// 纯正：和牌前手中恰好 3111111113（或天和）
	pure := ctx.env.Tianhu
	if !pure {
		pure = true
		before := ctx.counts
		before[ctx.winType]--
		for n := 0; n < 9; n++ {
			if before[base+TileType(n)] != chuurenPattern[n] {
				pure = false
				break
			}
		}
	}
	if pure {
		return one(YakuJunseiChuuren, -2)
	}
	return one(YakuChuuren, -1)
}

func checkKokushi(ctx *winContext) []YakuEntry {
	switch ctx.decomp.Shape {
	case ShapeKokushi:
		return one(YakuKokushi, -1)
	case ShapeKokushi13:
		return one(YakuKokushi13, -2)
	}
	return nil
}

// doraEntries 宝牌类计数加成
func doraEntries(ctx *winContext) []YakuEntry {
	var entries []YakuEntry

	dora := 0
	for _, ind := range ctx.env.DoraIndicators {
		target := DoraTile(ind.Type)
		for _, t := range ctx.allTiles {
			if t.Type == target {
				dora++
			}
		}
		for _, t := range ctx.beiTiles {
			if t.Type == target {
				dora++
			}
		}
	}
	if dora > 0 {
		entries = append(entries, YakuEntry{Yaku: YakuDora, Fan: dora, BonusOnly: true})
	}

	if ctx.env.CountRed {
		red := 0
		for _, t := range ctx.allTiles {
			if t.IsRedFive() {
				red++
			}
		}
		if red > 0 {
			entries = append(entries, YakuEntry{Yaku: YakuAkaDora, Fan: red, BonusOnly: true})
		}
	}

	if n := len(ctx.beiTiles); n > 0 {
		entries = append(entries, YakuEntry{Yaku: YakuBeiDora, Fan: n, BonusOnly: true})
	}

	if ctx.env.Riichi != RiichiNone {
		ura := 0
		for _, ind := range ctx.env.UraDoraIndicators {
			target := DoraTile(ind.Type)
			for _, t := range ctx.allTiles {
				if t.Type == target {
					ura++
				}
			}
			for _, t := range ctx.beiTiles {
				if t.Type == target {
					ura++
				}
			}
		}
		// 立直时即使 0 张也展示里宝牌条目
		entries = append(entries, YakuEntry{Yaku: YakuUraDora, Fan: ura, BonusOnly: true})
	}
	return entries
}

// buildWinContext 把一个拆解连同副露、环境组装成判定上下文
func buildWinContext(player *PlayerImage, winTile Tile, env *WinEnv, decomp *Decomposition) *winContext {
	ctx := &winContext{
		decomp:   decomp,
		pair:     decomp.Pair,
		winType:  winTile.Type,
		menzen:   player.IsMenzen(),
		beiTiles: player.BeiTiles,
		env:      env,
	}

	// 手牌 + 所和的牌（自摸时已在手中）
	ctx.allTiles = append(ctx.allTiles, player.Tiles...)
	if !env.Tsumo {
		ctx.allTiles = append(ctx.allTiles, winTile)
	}
	for _, m := range player.Melds {
		ctx.allTiles = append(ctx.allTiles, m.Tiles...)
	}
	for _, t := range ctx.allTiles {
		ctx.counts[t.Type]++
	}

	if decomp.Shape != ShapeStandard {
		return ctx
	}

	// 手内面子：荣和双碰补全的刻子按明刻计
	for _, dm := range decomp.Melds {
		mv := meldView{
			isRun:     dm.Kind == DecompRun,
			tile:      dm.Tile,
			concealed: true,
			isWaitSet: dm.IsWaitMeld,
		}
		if dm.IsWaitMeld && decomp.WaitBits&WaitShanpon != 0 && !env.Tsumo {
			mv.concealed = false
		}
		ctx.melds = append(ctx.melds, mv)
	}
	// 副露
	for _, m := range player.Melds {
		mv := meldView{
			isRun:     m.Type == MeldChi,
			isKan:     m.IsKan(),
			concealed: m.Type == MeldAnkan,
		}
		if m.Type == MeldChi {
			mv.tile = m.ChiStart
		} else {
			mv.tile = m.Tiles[0].Type
		}
		ctx.melds = append(ctx.melds, mv)
	}
	return ctx
}

// CheckWin 对玩家手牌与所和的牌求最优和牌结果
// 没有起和役时返回 nil；自摸时 winTile 应当已在 player.Tiles 中
func CheckWin(player *PlayerImage, winTile Tile, env *WinEnv) *WinResult {
	concealed := player.Counts34()
	if env.Tsumo {
		concealed[winTile.Type]--
	}
	decomps := DecomposeWin(concealed, len(player.Melds), winTile.Type)
	if len(decomps) == 0 {
		return nil
	}

	var best *WinResult
	for _, d := range decomps {
		ctx := buildWinContext(player, winTile, env, d)
		entries := evaluateYaku(ctx)
		hasYaku := false
		fan := 0
		for _, e := range entries {
			fan += e.Fan
			if !e.BonusOnly {
				hasYaku = true
			}
		}
		if !hasYaku {
			continue
		}
		result := &WinResult{
			Fan:    fan,
			Fu:     calculateFu(ctx),
			Yaku:   entries,
			Decomp: d,
		}
		if better(result, best) {
			best = result
		}
	}
	return best
}

// better 役满永远压过非役满，再比番，番相同比符
func better(a, b *WinResult) bool {
	if b == nil {
		return true
	}
	aLim, bLim := a.Fan < 0, b.Fan < 0
	if aLim != bLim {
		return aLim
	}
	if aLim {
		return a.Fan < b.Fan
	}
	if a.Fan != b.Fan {
		return a.Fan > b.Fan
	}
	return a.Fu > b.Fu
}

package mahjong

import (
	"fmt"
	"testing"

	"github.com/chushi0/jp-mahjong-server/common/config"
)

// 只装结算相关字段，不启动 actor 协程
func newSettlementEngine() *RiichiMahjong4p {
	eg := &RiichiMahjong4p{
		Situation: &Situation{DealerIndex: 0, RoundWind: WindEast, RoundNumber: 1},
		Conf: config.GameConf{
			InitialPoints: 25000,
			TargetPoints:  30000,
			AllLastWind:   2,
			MaxExtraWind:  3,
		},
		pendingRiichi: -1,
	}
	for i := 0; i < 4; i++ {
		eg.Players[i] = NewPlayerImage(fmt.Sprintf("u%d", i), i, 25000)
	}
	return eg
}

func TestAdvanceRound_DealerKeeps(t *testing.T) {
	eg := newSettlementEngine()
	next := eg.advanceRound(true, false)
	if next != 0 || eg.Situation.DealerIndex != 0 {
		t.Fatalf("dealer must keep seat, got next=%d", next)
	}
	if eg.Situation.Honba != 1 {
		t.Fatalf("renchan must increment honba, got %d", eg.Situation.Honba)
	}
	if eg.Situation.RoundNumber != 1 || eg.Situation.RoundWind != WindEast {
		t.Fatalf("round must not advance on renchan")
	}
}

func TestAdvanceRound_RotateAfterWin(t *testing.T) {
	eg := newSettlementEngine()
	eg.Situation.Honba = 3
	next := eg.advanceRound(false, false)
	if next != 1 {
		t.Fatalf("dealer must rotate to 1, got %d", next)
	}
	if eg.Situation.Honba != 0 {
		t.Fatalf("non-dealer win must reset honba, got %d", eg.Situation.Honba)
	}
	if eg.Situation.RoundNumber != 2 {
		t.Fatalf("round number expected 2, got %d", eg.Situation.RoundNumber)
	}
}

func TestAdvanceRound_DrawRotateKeepsHonba(t *testing.T) {
	eg := newSettlementEngine()
	next := eg.advanceRound(false, true)
	if next != 1 {
		t.Fatalf("dealer must rotate to 1, got %d", next)
	}
	if eg.Situation.Honba != 1 {
		t.Fatalf("draw must increment honba even on rotation, got %d", eg.Situation.Honba)
	}
}

func TestAdvanceRound_WindChange(t *testing.T) {
	eg := newSettlementEngine()
	eg.Situation.DealerIndex = 3
	eg.Situation.RoundNumber = 4
	eg.advanceRound(false, false)
	if eg.Situation.RoundWind != WindSouth || eg.Situation.RoundNumber != 1 {
		t.Fatalf("east 4 rotation must enter south 1, got %v%d", eg.Situation.RoundWind, eg.Situation.RoundNumber)
	}
	if eg.Situation.DealerIndex != 0 {
		t.Fatalf("dealer must wrap to 0, got %d", eg.Situation.DealerIndex)
	}
}

func TestApplyDelta_ZeroSumKeepsTotal(t *testing.T) {
	eg := newSettlementEngine()
	eg.applyDelta([4]int{12000, -8000, -2000, -2000})
	total := 0
	for i := 0; i < 4; i++ {
		total += eg.Players[i].Points
	}
	if total != 4*25000 {
		t.Fatalf("zero-sum delta must preserve total points, got %d", total)
	}
	if eg.Players[0].PointChange != 12000 {
		t.Fatalf("point change expected 12000, got %d", eg.Players[0].PointChange)
	}
}

func TestShouldEndGame(t *testing.T) {
	eg := newSettlementEngine()
	if eg.shouldEndGame() {
		t.Fatalf("east 1 all even must continue")
	}

	// 击飞
	eg.Players[2].Points = -1000
	if !eg.shouldEndGame() {
		t.Fatalf("busted player must end game")
	}
	eg.Players[2].Points = 25000

	// 南场结束（进西）但无人达标：西入
	eg.Situation.RoundWind = WindWest
	if eg.shouldEndGame() {
		t.Fatalf("west overtime must continue while nobody reaches target")
	}

	// 西入中首位达标
	eg.Players[1].Points = 31000
	if !eg.shouldEndGame() {
		t.Fatalf("leader at target after all last must end game")
	}
	eg.Players[1].Points = 25000

	// 加时赛上限：进北场强制终局
	eg.Situation.RoundWind = WindNorth
	if !eg.shouldEndGame() {
		t.Fatalf("beyond max extra wind must end game")
	}
}

func TestConfirmAndAnnulRiichi(t *testing.T) {
	eg := newSettlementEngine()
	eg.Players[1].RiichiType = RiichiNormal
	eg.pendingRiichi = 1

	eg.confirmRiichi()
	if eg.Players[1].Points != 24000 {
		t.Fatalf("riichi stick must cost 1000, got %d", eg.Players[1].Points)
	}
	if eg.Situation.RiichiSticks != 1 {
		t.Fatalf("riichi stick must enter pot, got %d", eg.Situation.RiichiSticks)
	}
	if !eg.Players[1].Ippatsu {
		t.Fatalf("ippatsu window must open on confirmation")
	}
	if eg.pendingRiichi != -1 {
		t.Fatalf("pending riichi must clear")
	}

	// 宣言牌被荣和：立直不成立也不扣供托
	eg.Players[2].RiichiType = RiichiNormal
	eg.pendingRiichi = 2
	eg.annulRiichi()
	if eg.Players[2].RiichiType != RiichiNone {
		t.Fatalf("annulled riichi must revert")
	}
	if eg.Players[2].Points != 25000 || eg.Situation.RiichiSticks != 1 {
		t.Fatalf("annulled riichi must not pay the stick")
	}
}

func TestMarkPassFuriten(t *testing.T) {
	eg := newSettlementEngine()
	eg.Players[1].Tenpai = []TileType{Man5}
	eg.Players[2].Tenpai = []TileType{Man5}
	eg.Players[2].RiichiType = RiichiNormal
	eg.Players[3].Tenpai = []TileType{So9}

	eg.markPassFuriten(0, Man5)

	if !eg.tempFuriten[1] || eg.Players[1].Furiten {
		t.Fatalf("non-riichi waiter gets temporary furiten only")
	}
	if !eg.Players[2].Furiten {
		t.Fatalf("riichi waiter gets permanent furiten")
	}
	if eg.tempFuriten[3] || eg.Players[3].Furiten {
		t.Fatalf("seat not waiting for the tile must stay clean")
	}
}

func TestMarkPassFuriten_RiichiPermanent(t *testing.T) {
	eg := newReactionEngine(t)
	player := eg.Players[3]
	for _, tile := range tiles(Pin2, Pin3, Pin4, Pin5, Pin6, Pin7, So6, So7, So8, So3, So3, Man3, Man4) {
		player.AddTile(tile)
	}
	player.RiichiType = RiichiNormal
	player.Tenpai = []TileType{Man2, Man5}

	eg.markPassFuriten(0, Man5)
	if !player.Furiten {
		t.Fatalf("missed ron under riichi must set furiten")
	}

	// 摸切一巡后重算听牌，永久振听不得解除
	player.DrawTile(tt(East))
	if !player.DiscardTile(tt(East), DropNormal, true) {
		t.Fatalf("discard failed")
	}
	eg.refreshTenpai(3)
	if !player.Furiten {
		t.Fatalf("riichi furiten must survive tenpai refresh")
	}
	if _, ok := eg.calculateReactions(0, tt(Man5), SourceNormal)[3]; ok {
		t.Fatalf("permanently furiten riichi seat must not be offered ron again")
	}

	// 下一局重置
	player.ResetRound()
	if player.Furiten || player.PermanentFuriten {
		t.Fatalf("furiten must clear between rounds")
	}
}

func TestShouldEndGame_AllLastDealerLeader(t *testing.T) {
	eg := newSettlementEngine()
	eg.Situation.RoundWind = WindSouth
	eg.Situation.RoundNumber = 4
	eg.Players[0].Points = 41000

	// 南 4 连庄且庄家单独首位达标：和了止め
	eg.advanceRound(true, false)
	if !eg.shouldEndGame() {
		t.Fatalf("all-last renchan with dealer as sole leader at target must end the game")
	}

	// 并列首位不终局
	eg.Players[1].Points = 41000
	if eg.shouldEndGame() {
		t.Fatalf("tied leaders must continue the renchan")
	}
	eg.Players[1].Points = 25000

	// 首位但未达标不终局
	eg.Players[0].Points = 29900
	if eg.shouldEndGame() {
		t.Fatalf("dealer below target must continue")
	}

	// 南 3 过庄进入南 4：新庄家尚未打这局，不得提前终局
	eg2 := newSettlementEngine()
	eg2.Situation.RoundWind = WindSouth
	eg2.Situation.RoundNumber = 3
	eg2.Situation.DealerIndex = 2
	eg2.Players[3].Points = 41000
	eg2.advanceRound(false, false)
	if eg2.shouldEndGame() {
		t.Fatalf("entering all-last must not end before the hand is played")
	}
}

func TestCheckFourKanDraw(t *testing.T) {
	eg := newSettlementEngine()
	kan := Meld{Type: MeldAnkan, Tiles: tiles(Man1, Man1, Man1, Man1)}

	// 一家四杠不流局（四杠子进行形）
	eg.Players[0].Melds = []Meld{kan, kan, kan, kan}
	if eg.checkFourKanDraw() {
		t.Fatalf("four kans by one seat must not abort")
	}

	// 分属两家则流局
	eg.Players[0].Melds = []Meld{kan, kan, kan}
	eg.Players[1].Melds = []Meld{kan}
	if !eg.checkFourKanDraw() {
		t.Fatalf("four kans across seats must abort")
	}
}

func TestCheckFourWindDraw(t *testing.T) {
	eg := newSettlementEngine()
	eg.cycleDiscards = 4
	eg.firstWinds = []TileType{East, East, East, East}
	if !eg.checkFourWindDraw() {
		t.Fatalf("four identical wind discards in first cycle must abort")
	}

	eg.firstWinds = []TileType{East, East, East, South}
	if eg.checkFourWindDraw() {
		t.Fatalf("mixed first-cycle winds must not abort")
	}

	eg.firstWinds = []TileType{Man1, Man1, Man1, Man1}
	if eg.checkFourWindDraw() {
		t.Fatalf("non-wind tiles must not trigger the wind abort")
	}
}

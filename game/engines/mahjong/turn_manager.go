package mahjong

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type TickerState int

const (
	StateIdle    TickerState = iota // 空闲
	StateRunning                    // 计时中
	StateStopped                    // 已停止
	StateTimeout                    // 已超时
)

type TurnState int

const (
	TurnStateIdle           TurnState = iota // 等待开局
	TurnStateWaitMain                        // 等待出牌者的动作（出牌、立直、杠、拔北、自摸、九种九牌）
	TurnStateSelecting                       // 计算各家可选操作
	TurnStateWaitReactions                   // 等待各家对出牌/加杠的反应
	TurnStateApplyOperation                  // 执行已裁决的操作，格局变更中
)

// TurnManager 回合状态机与各座位的计时
type TurnManager struct {
	TurnPointer int
	State       TurnState
	Tickers     [4]*PlayerTicker
}

func NewTurnManager(tickers [4]*PlayerTicker) *TurnManager {
	return &TurnManager{
		TurnPointer: 0,
		State:       TurnStateIdle,
		Tickers:     tickers,
	}
}

// NextTurn 轮到下一家
func (tm *TurnManager) NextTurn() int {
	tm.TurnPointer = (tm.TurnPointer + 1) % 4
	return tm.TurnPointer
}

func (tm *TurnManager) GetCurrentPlayer() int {
	return tm.TurnPointer
}

func (tm *TurnManager) GetState() TurnState {
	return tm.State
}

// ResetRound 新的一局从庄家开始
func (tm *TurnManager) ResetRound(dealerIndex int, totalTime int) {
	tm.stopAllTickers()
	tm.TurnPointer = dealerIndex
	tm.State = TurnStateIdle
	for i := 0; i < 4; i++ {
		tm.Tickers[i].SetAvailable(totalTime)
	}
}

func (tm *TurnManager) stopAllTickers() {
	for i := 0; i < 4; i++ {
		if tm.Tickers[i] != nil && tm.Tickers[i].GetState() == StateRunning {
			tm.Tickers[i].Stop()
		}
	}
}

// EnterDropPhase 进入出牌阶段并给出牌者开计时
// 分配时间 = 玩家剩余时间 + 本回合补偿，封顶 maxRoundTime
func (tm *TurnManager) EnterDropPhase(seatIndex int, roundCompensation, maxRoundTime int) error {
	if seatIndex < 0 || seatIndex >= 4 {
		return fmt.Errorf("无效的座位索引: %d", seatIndex)
	}

	tm.stopAllTickers()
	tm.TurnPointer = seatIndex
	tm.State = TurnStateWaitMain

	ticker := tm.Tickers[seatIndex]
	allocatedTime := ticker.Available + roundCompensation
	if allocatedTime > maxRoundTime {
		allocatedTime = maxRoundTime
	}
	ticker.SetAvailable(allocatedTime)
	if err := ticker.Start(allocatedTime); err != nil {
		return fmt.Errorf("启动出牌计时失败: %v", err)
	}
	return nil
}

// EnterSelectingPhase 进入操作计算阶段，不计时
func (tm *TurnManager) EnterSelectingPhase() {
	tm.stopAllTickers()
	tm.State = TurnStateSelecting
}

// EnterReactingPhase 进入等待反应阶段，由引擎给有操作的座位单独开计时
func (tm *TurnManager) EnterReactingPhase() {
	tm.State = TurnStateWaitReactions
}

// EnterApplyingPhase 进入执行阶段
func (tm *TurnManager) EnterApplyingPhase() {
	tm.stopAllTickers()
	tm.State = TurnStateApplyOperation
}

func (tm *TurnManager) GetPlayerTicker(seatIndex int) *PlayerTicker {
	return tm.Tickers[seatIndex]
}

// PlayerTicker 单个座位的回合计时器
// 超时与主动停止都经由回调转成引擎事件，迟到的应答由状态机丢弃
type PlayerTicker struct {
	Available      int // 总剩余时间（秒，跨回合累计）
	RoundStartTime time.Time

	State     TickerState
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc

	onTimeout func()
	onStop    func()

	sync.RWMutex
}

func NewPlayerTicker(totalTime int) *PlayerTicker {
	return &PlayerTicker{
		Available: totalTime,
		State:     StateIdle,
	}
}

// Start 启动计时，重复启动或时间不足返回错误
func (pt *PlayerTicker) Start(duration int) error {
	pt.Lock()
	defer pt.Unlock()

	if pt.isRunning {
		return fmt.Errorf("计时已在运行，无法重复启动")
	}
	if pt.Available < duration {
		return fmt.Errorf("剩余时间 %d 秒不足 %d 秒", pt.Available, duration)
	}

	pt.isRunning = true
	pt.State = StateRunning
	pt.RoundStartTime = time.Now()
	go pt.timerLoop(duration)
	return nil
}

func (pt *PlayerTicker) timerLoop(duration int) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(duration)*time.Second)
	defer cancel()
	pt.Lock()
	pt.ctx = ctx
	pt.cancel = cancel
	pt.Unlock()
	<-ctx.Done()

	pt.Lock()
	defer pt.Unlock()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		pt.State = StateTimeout
		pt.isRunning = false
		pt.Available = 0
		if pt.onTimeout != nil {
			pt.onTimeout()
		}
	} else if errors.Is(ctx.Err(), context.Canceled) {
		usedTime := int(time.Since(pt.RoundStartTime).Seconds())
		pt.Available = max(0, pt.Available-usedTime)
		pt.State = StateStopped
		pt.isRunning = false
		if pt.onStop != nil {
			pt.onStop()
		}
	}
}

// Stop 玩家应答后停止计时，已超时返回 false
func (pt *PlayerTicker) Stop() bool {
	pt.Lock()
	defer pt.Unlock()
	if !pt.isRunning || pt.cancel == nil {
		return false
	}
	pt.cancel()
	return true
}

func (pt *PlayerTicker) SetAvailable(available int) int {
	pt.Lock()
	defer pt.Unlock()
	pt.Available = available
	return pt.Available
}

func (pt *PlayerTicker) GetState() TickerState {
	pt.RLock()
	defer pt.RUnlock()
	return pt.State
}

func (pt *PlayerTicker) SetOnTimeout(callback func()) {
	pt.Lock()
	defer pt.Unlock()
	pt.onTimeout = callback
}

func (pt *PlayerTicker) SetOnStop(callback func()) {
	pt.Lock()
	defer pt.Unlock()
	pt.onStop = callback
}

package game

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/arl/statsviz"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/chushi0/jp-mahjong-server/common/log"
)

// Monitor 负载采样器
// 定期采样 CPU、内存、房间数、玩家数，并在调试端口暴露 statsviz
type Monitor struct {
	roomManager    *RoomManager
	updateInterval time.Duration

	mu       sync.RWMutex
	latest   LoadInfo
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMonitor(roomManager *RoomManager, updateInterval time.Duration) *Monitor {
	return &Monitor{
		roomManager:    roomManager,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

// Start 启动采样循环，阻塞直到 ctx 取消或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.sample()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// Latest 最近一次采样结果
func (m *Monitor) Latest() LoadInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func (m *Monitor) sample() {
	roomCount, playerCount := m.roomManager.GetStats()
	info := LoadInfo{
		RoomCount:   roomCount,
		PlayerCount: playerCount,
		CPUUsage:    sampleCPU(),
		MemUsage:    sampleMemory(),
	}

	m.mu.Lock()
	m.latest = info
	m.mu.Unlock()

	log.Debug("Monitor 采样: score=%.2f, rooms=%d, players=%d, cpu=%.1f%%, mem=%.1f%%",
		info.Score(), info.RoomCount, info.PlayerCount, info.CPUUsage, info.MemUsage)
}

func sampleCPU() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return 0.0
	}
	return percents[0]
}

func sampleMemory() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0.0
	}
	return vm.UsedPercent
}

// ServeDebug 在指定端口暴露 statsviz 运行时可视化
// 阻塞运行，通常放在独立协程中
func (m *Monitor) ServeDebug(port int) error {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return fmt.Errorf("注册 statsviz 失败: %v", err)
	}
	addr := fmt.Sprintf(":%d", port)
	log.Info("Monitor 调试端口: http://localhost%s/debug/statsviz/", addr)
	return http.ListenAndServe(addr, mux)
}

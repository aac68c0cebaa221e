package game

// LoadInfo 节点负载采样
type LoadInfo struct {
	RoomCount   int     // 当前房间数
	PlayerCount int     // 当前玩家数
	CPUUsage    float64 // CPU 使用率（0-100）
	MemUsage    float64 // 内存使用率（0-100）
}

// 归一化用的满载基准
const (
	fullLoadRooms   = 100.0
	fullLoadPlayers = 400.0
)

// Score 综合负载评分，越小越空闲
// 权重：CPU 30%、内存 20%、房间数 25%、玩家数 25%
func (li *LoadInfo) Score() float64 {
	rooms := float64(li.RoomCount) / fullLoadRooms
	if rooms > 1.0 {
		rooms = 1.0
	}
	players := float64(li.PlayerCount) / fullLoadPlayers
	if players > 1.0 {
		players = 1.0
	}
	return li.CPUUsage*0.3 + li.MemUsage*0.2 + rooms*100*0.25 + players*100*0.25
}

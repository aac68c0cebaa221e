package game

import (
	"sync"

	"github.com/chushi0/jp-mahjong-server/common/log"
)

// Worker 房间销毁队列
// 引擎在自己的协程里请求销毁，经队列解耦后由独立协程操作注册表，
// 避免引擎回调中直接拿 RoomManager 的锁
type Worker struct {
	RoomManager *RoomManager

	destroyRoomCh chan string
	destroyMu     sync.Mutex
	destroyClosed bool
}

func NewWorker(roomManager *RoomManager) *Worker {
	worker := &Worker{
		RoomManager:   roomManager,
		destroyRoomCh: make(chan string, 128),
	}
	go worker.destroyRoomLoop()
	return worker
}

func (w *Worker) destroyRoomLoop() {
	for roomID := range w.destroyRoomCh {
		if roomID == "" {
			continue
		}
		if err := w.RoomManager.DeleteRoom(roomID); err != nil {
			log.Warn("Worker 删除房间失败: %v", err)
		}
	}
}

// RequestDestroyRoom 实现 engines.RoomService
func (w *Worker) RequestDestroyRoom(roomID string) {
	if roomID == "" {
		return
	}

	w.destroyMu.Lock()
	if w.destroyClosed {
		w.destroyMu.Unlock()
		return
	}
	ch := w.destroyRoomCh
	w.destroyMu.Unlock()

	select {
	case ch <- roomID:
	default:
		log.Warn("Worker 销毁队列已满, roomID=%s", roomID)
	}
}

func (w *Worker) Close() {
	w.destroyMu.Lock()
	defer w.destroyMu.Unlock()
	if !w.destroyClosed {
		close(w.destroyRoomCh)
		w.destroyClosed = true
	}
}

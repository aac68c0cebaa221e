package conn

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/chushi0/jp-mahjong-server/common/log"
)

const pushSubjectPrefix = "game.push."

// pushEnvelope 总线上的推送载荷
type pushEnvelope struct {
	Route string          `json:"route"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NatsEventSink 把对局推送发布到消息总线
// 连接网关与游戏服分离部署时使用，按玩家订阅 game.push.<userID>
type NatsEventSink struct {
	nc *nats.Conn
}

func NewNatsEventSink(url string) (*NatsEventSink, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS 连接断开: %v", err)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			log.Info("NATS 已重连: %s", conn.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	log.Info("NATS 已连接: %s", url)
	return &NatsEventSink{nc: nc}, nil
}

// Push 实现 mahjong.MatchEventSink
func (s *NatsEventSink) Push(userIDs []string, route string, data []byte) {
	payload, err := json.Marshal(pushEnvelope{Route: route, Data: data})
	if err != nil {
		log.Error("序列化推送载荷失败: route=%s, err=%v", route, err)
		return
	}
	for _, userID := range userIDs {
		if err := s.nc.Publish(pushSubjectPrefix+userID, payload); err != nil {
			log.Warn("NATS 推送失败: user=%s, route=%s, err=%v", userID, route, err)
		}
	}
}

func (s *NatsEventSink) Close() {
	if err := s.nc.Drain(); err != nil {
		log.Warn("NATS 关闭失败: %v", err)
	}
}

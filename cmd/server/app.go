package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chushi0/jp-mahjong-server/api"
	"github.com/chushi0/jp-mahjong-server/common/config"
	"github.com/chushi0/jp-mahjong-server/common/database"
	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/conn"
	"github.com/chushi0/jp-mahjong-server/core/domain/repository"
	"github.com/chushi0/jp-mahjong-server/core/infrastructure/persistence"
	"github.com/chushi0/jp-mahjong-server/game"
	"github.com/chushi0/jp-mahjong-server/game/engines"
	"github.com/chushi0/jp-mahjong-server/game/engines/mahjong"
)

const monitorInterval = 10 * time.Second

// Run 组装各组件并阻塞运行，收到退出信号后优雅关闭
func Run(ctx context.Context) error {
	cfg := config.ServerConfig

	// 牌谱落库，未配置 Mongo 时跳过
	var repo repository.GameRecordRepository
	if cfg.DatabaseConf.MongoConf.Url != "" {
		mongoManager, err := database.NewMongo(cfg.DatabaseConf.MongoConf)
		if err != nil {
			return fmt.Errorf("连接 Mongo 失败: %v", err)
		}
		defer mongoManager.Close()
		repo = persistence.NewGameRecordRepository(mongoManager)
	} else {
		log.Warn("未配置 Mongo，对局记录不落库")
	}

	// 玩家路由缓存，未配置 Redis 时只用本地表
	var redisManager *database.RedisManager
	if cfg.DatabaseConf.RedisConf.Addr != "" {
		manager, err := database.NewRedis(cfg.DatabaseConf.RedisConf)
		if err != nil {
			return fmt.Errorf("连接 Redis 失败: %v", err)
		}
		redisManager = manager
		defer redisManager.Close()
	}

	roomManager := game.NewRoomManager(redisManager)
	worker := game.NewWorker(roomManager)
	defer worker.Close()

	sessions := conn.NewSessionManager(roomManager)
	defer sessions.Close()

	// 默认直推 WebSocket 会话，配置了 NATS 则改走消息总线
	var sink mahjong.MatchEventSink = sessions
	if cfg.NatsConfig.URL != "" {
		natsSink, err := conn.NewNatsEventSink(cfg.NatsConfig.URL)
		if err != nil {
			return fmt.Errorf("连接 NATS 失败: %v", err)
		}
		defer natsSink.Close()
		sink = natsSink
	}
	provider := conn.NewWsDecisionProvider(sink)

	prototype := mahjong.NewRiichiMahjong4p(worker, provider, sink, repo, cfg.GameConf)
	if err := roomManager.SetEnginePrototype(engines.RIICHI_MAHJONG_4P_ENGINE, prototype); err != nil {
		return err
	}

	monitor := game.NewMonitor(roomManager, monitorInterval)
	go monitor.Start(ctx)
	defer monitor.Stop()
	if cfg.MetricPort > 0 {
		go func() {
			if err := monitor.ServeDebug(cfg.MetricPort); err != nil {
				log.Error("调试端口启动失败: %v", err)
			}
		}()
	}

	server := api.NewServer(roomManager, worker, sessions, monitor, cfg.JwtConf, cfg.ID)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(cfg.HttpAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-sigCh:
		log.Info("收到退出信号: %v", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

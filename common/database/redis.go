package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chushi0/jp-mahjong-server/common/config"
	"github.com/chushi0/jp-mahjong-server/common/log"
)

type RedisManager struct {
	Cli *redis.Client
}

func NewRedis(redisConf config.RedisConf) (*RedisManager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if redisConf.Addr == "" {
		return nil, errors.New("redis 配置出错")
	}

	cli := redis.NewClient(&redis.Options{
		Addr:         redisConf.Addr,
		Password:     redisConf.Password,
		PoolSize:     redisConf.PoolSize,
		MinIdleConns: redisConf.MinIdleConns,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		log.Error("redis 连接错误: %v", err)
		return nil, err
	}

	return &RedisManager{Cli: cli}, nil
}

func (r *RedisManager) Close() error {
	if r == nil || r.Cli == nil {
		return nil
	}
	return r.Cli.Close()
}

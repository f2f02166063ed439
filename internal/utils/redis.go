// 包 utils：外部连接工具（Redis 会话库、PostgreSQL 目标表、自签名证书），统一环境变量读取
package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"canvass-map/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisAddrFromEnv：REDIS_HOST/REDIS_PORT 组合地址，缺省 127.0.0.1:6379
func RedisAddrFromEnv() string {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

// OpenRedisFromEnv：从环境变量打开 Redis 客户端并做一次 PING
// 约束：REDIS_DB 解析失败时回退到 0；PING 失败返回错误，由调用方决定是否降级到内存会话
func OpenRedisFromEnv(ctx context.Context) (*redis.Client, error) {
	addr := RedisAddrFromEnv()
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

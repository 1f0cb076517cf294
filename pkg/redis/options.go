package redis

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// AsynqOptions parses a Redis URL into connection options usable by
// both the Asynq client and server.
func AsynqOptions(url string) (asynq.RedisClientOpt, error) {
	if url == "" {
		return asynq.RedisClientOpt{}, ErrURLRequired
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("invalid redis URL: %w", err)
	}

	return asynq.RedisClientOpt{
		Network:      opt.Network,
		Addr:         opt.Addr,
		Username:     opt.Username,
		Password:     opt.Password,
		DB:           opt.DB,
		DialTimeout:  opt.DialTimeout,
		ReadTimeout:  opt.ReadTimeout,
		WriteTimeout: opt.WriteTimeout,
		PoolSize:     opt.PoolSize,
		TLSConfig:    opt.TLSConfig,
	}, nil
}

package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// redisOptions reads the Redis settings. ok is false unless REDIS_ENABLED=true.
func redisOptions() (opts *redis.Options, ok bool) {
	if os.Getenv("REDIS_ENABLED") != "true" {
		return nil, false
	}
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}
	return &redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, true
}

// ConnectRedis opens the process-wide Redis client once. Redis only backs the
// login rate limiter, so a disabled or unreachable server leaves the client nil.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		opts, ok := redisOptions()
		if !ok {
			return
		}

		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if pingErr := rdb.Ping(ctx).Err(); pingErr != nil {
			_ = rdb.Close()
			err = fmt.Errorf("redis ping %s: %w", opts.Addr, pingErr)
			return
		}

		redisClient = rdb
		log.Printf("Connected to Redis at %s (db %d)", opts.Addr, opts.DB)
	})
	return redisClient, err
}

// GetRedisClient returns the client opened by ConnectRedis, or nil.
func GetRedisClient() *redis.Client {
	return redisClient
}

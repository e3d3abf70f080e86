package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest installs client as if ConnectRedis had opened it.
// Later ConnectRedis calls return it unchanged. Tests only.
func SetRedisClientForTest(client *redis.Client) {
	redisOnce.Do(func() {})
	redisClient = client
}

// ResetRedisClientForTest forgets the current client so the next ConnectRedis
// reads the environment again. The client is not closed. Tests only.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}

package config

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestConnectRedis_Disabled(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("REDIS_ENABLED", "false")

	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_DefaultIsDisabled(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("REDIS_ENABLED", "")

	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectRedis_InvalidAddress(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	rdb, err := ConnectRedis()
	assert.Error(t, err)
	assert.Nil(t, rdb)
	assert.Nil(t, GetRedisClient())
}

func TestConnectRedis_ConcurrentCalls(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("REDIS_ENABLED", "false")

	type callResult struct {
		rdb interface{}
		err error
	}
	done := make(chan callResult, 5)
	for i := 0; i < 5; i++ {
		go func() {
			rdb, err := ConnectRedis()
			done <- callResult{rdb: rdb, err: err}
		}()
	}

	for i := 0; i < 5; i++ {
		res := <-done
		assert.NoError(t, res.err)
		assert.Nil(t, res.rdb)
	}
}

func TestRedisTestHelpers_SetAndReset(t *testing.T) {
	original := GetRedisClient()
	defer SetRedisClientForTest(original)

	SetRedisClientForTest(nil)
	assert.Nil(t, GetRedisClient())

	ResetRedisClientForTest()
	assert.Nil(t, GetRedisClient())
}

func TestSetRedisClientForTest_SkipsConnect(t *testing.T) {
	ResetRedisClientForTest()
	t.Cleanup(ResetRedisClientForTest)
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	SetRedisClientForTest(client)

	rdb, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Same(t, client, rdb)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	opts, ok := redisOptions()
	assert.True(t, ok)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	t.Setenv("REDIS_DB", "two")
	opts, _ = redisOptions()
	assert.Equal(t, 0, opts.DB)
}

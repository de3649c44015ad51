package database

import (
	"testing"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffNextDelay(t *testing.T) {
	b := backoff{maxRetries: 5, delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, time.Second, b.nextDelay(1))
	assert.Equal(t, 4*time.Second, b.nextDelay(3))
	assert.Equal(t, 5*time.Second, b.nextDelay(4))
	assert.Equal(t, 5*time.Second, b.nextDelay(62))
}

func TestPoolConfigFrom(t *testing.T) {
	pool := PoolConfigFrom(config.DatabaseConfig{})
	assert.Equal(t, DefaultConnectionPoolConfig(), pool)

	pool = PoolConfigFrom(config.DatabaseConfig{MaxOpenConns: 50, MaxIdleConns: 10, ConnMaxLifetime: 60})
	assert.Equal(t, 50, pool.MaxOpenConns)
	assert.Equal(t, 10, pool.MaxIdleConns)
	assert.Equal(t, time.Minute, pool.ConnMaxLifetime)
}

func TestNewConnection_RequiresDatabaseURL(t *testing.T) {
	log := &logger.Logger{Logger: logrus.New()}

	conn, err := NewConnection(&config.Config{}, log)
	assert.ErrorIs(t, err, config.ErrMissingDatabaseURL)
	assert.Nil(t, conn)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient(&config.Config{Redis: config.RedisConfig{Addr: "cache:6379", DB: 2}})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "cache:6379", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
}

func TestMigrationStatusComplete(t *testing.T) {
	status := &MigrationStatus{
		Tables:      map[string]bool{"projects": true},
		Constraints: map[string]bool{"chk_projects_abc": true},
	}
	assert.True(t, status.Complete())

	status.Constraints["fk_clients_projects"] = false
	assert.False(t, status.Complete())
}

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions(config.RedisConfig{Addr: "cache:6379", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 500*time.Millisecond, opts.ReadTimeout)

	opts, err = RedisOptions(config.RedisConfig{Addr: "ignored:6379", URL: "redis://:secret@redis.internal:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = RedisOptions(config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)
}

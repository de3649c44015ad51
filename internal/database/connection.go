package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connection wraps gorm.DB with additional functionality
type Connection struct {
	*gorm.DB
}

// ConnectionPoolConfig holds database connection pool configuration
type ConnectionPoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionPoolConfig returns default connection pool configuration
func DefaultConnectionPoolConfig() *ConnectionPoolConfig {
	return &ConnectionPoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// PoolConfigFrom overlays configured pool sizes onto the defaults.
func PoolConfigFrom(cfg config.DatabaseConfig) *ConnectionPoolConfig {
	pool := DefaultConnectionPoolConfig()
	if cfg.MaxOpenConns > 0 {
		pool.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		pool.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pool.ConnMaxLifetime = time.Duration(cfg.ConnMaxLifetime) * time.Second
	}
	return pool
}

type backoff struct {
	maxRetries int
	delay      time.Duration
	maxDelay   time.Duration
}

func (b backoff) nextDelay(attempt int) time.Duration {
	d := b.delay << attempt
	if d > b.maxDelay || d <= 0 {
		return b.maxDelay
	}
	return d
}

// NewConnection opens the store named by DATABASE_URL, retrying with
// exponential backoff until it answers a ping.
func NewConnection(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	if cfg.Database.URL == "" {
		return nil, config.ErrMissingDatabaseURL
	}

	gormConfig := &gorm.Config{
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		SkipDefaultTransaction:                   true,
		Logger:                                   logger.NewGormLogger(log, cfg.Database.LogQueries),
	}

	b := backoff{
		maxRetries: cfg.Database.ConnectRetries,
		delay:      500 * time.Millisecond,
		maxDelay:   5 * time.Second,
	}

	ctx := context.Background()
	var lastErr error
	for attempt := 0; attempt < max(b.maxRetries, 1); attempt++ {
		if attempt > 0 {
			wait := b.nextDelay(attempt - 1)
			log.WithError(lastErr).WithField("attempt", attempt+1).Warnf("database not ready, retrying in %s", wait)
			time.Sleep(wait)
		}

		conn, err := open(ctx, postgres.Open(cfg.Database.URL), gormConfig, PoolConfigFrom(cfg.Database))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", max(b.maxRetries, 1), lastErr)
}

// NewConnectionFromDialector opens a connection over an existing dialector.
// Tests use it to run the repositories against sqlmock.
func NewConnectionFromDialector(dialector gorm.Dialector, gormConfig *gorm.Config) (*Connection, error) {
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Connection{DB: db}, nil
}

func open(ctx context.Context, dialector gorm.Dialector, gormConfig *gorm.Config, pool *ConnectionPoolConfig) (*Connection, error) {
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{DB: db}, nil
}

// Ping checks that the store answers within ctx.
func (c *Connection) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func (c *Connection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetConnectionStats returns database connection statistics
func (c *Connection) GetConnectionStats() (*ConnectionStats, error) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	stats := sqlDB.Stats()

	return &ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats represents database connection statistics
type ConnectionStats struct {
	MaxOpenConnections int           `json:"maxOpenConnections"`
	OpenConnections    int           `json:"openConnections"`
	InUse              int           `json:"inUse"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"waitCount"`
	WaitDuration       time.Duration `json:"waitDuration"`
}

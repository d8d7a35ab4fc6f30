package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout     = 5 * time.Second
	defaultReadTimeout     = 3 * time.Second
	defaultWriteTimeout    = 3 * time.Second
	defaultPoolSize        = 10
	defaultConnMaxIdleTime = 5 * time.Minute
)

type Config struct {
	Host         string        `envconfig:"HOST" default:"localhost"`
	Port         string        `envconfig:"PORT" default:"6379"`
	Username     string        `envconfig:"USERNAME"`
	Password     string        `envconfig:"PASSWORD"`
	Database     int           `envconfig:"DATABASE" default:"0"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	ConnIdleTime time.Duration `envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`

	UserCacheTTL time.Duration `envconfig:"USER_CACHE_TTL" default:"1440h"` // 60 дней
	StateTTL     time.Duration `envconfig:"STATE_TTL" default:"168h"`       // 0 - без истечения
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

// NewConnection создаёт новое подключение к Redis и проверяет его пингом
func (c *Config) NewConnection() (*redis.Client, error) {
	dialTimeout := orDefault(c.DialTimeout, defaultDialTimeout)

	rdb := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", c.Host, c.Port),
		Username:        c.Username,
		Password:        c.Password,
		DB:              c.Database,
		MaxRetries:      c.MaxRetries,
		DialTimeout:     dialTimeout,
		ReadTimeout:     orDefault(c.ReadTimeout, defaultReadTimeout),
		WriteTimeout:    orDefault(c.WriteTimeout, defaultWriteTimeout),
		PoolSize:        orDefault(c.PoolSize, defaultPoolSize),
		MinIdleConns:    c.MinIdleConns,
		ConnMaxIdleTime: orDefault(c.ConnIdleTime, defaultConnMaxIdleTime),
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

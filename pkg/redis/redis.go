package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientName - имя соединений сервиса в CLIENT LIST
const ClientName = "sos-alert-system"

// Options - параметры подключения к Redis для очереди рассылок и кеша инцидентов
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// ReadTimeout должен превышать таймаут BRPOP воркера
	ReadTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.PoolSize <= 0 {
		o.PoolSize = 10
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	return o
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	opts = opts.withDefaults()

	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		ReadTimeout: opts.ReadTimeout,
		ClientName:  ClientName,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return rdb, nil
}

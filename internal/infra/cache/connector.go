package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable возвращается, когда Redis не ответил на ping за отведенное время
var ErrUnavailable = errors.New("cache: redis unavailable")

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// ConnectOptions параметры подключения к Redis и повторных попыток
type ConnectOptions struct {
	Addr           string
	Password       string
	DB             int
	ConnectTimeout time.Duration // общее время на попытки подключения
	RetryInterval  time.Duration // начальная пауза между попытками, растет экспоненциально
	MaxWait        time.Duration // верхняя граница паузы
	PingTimeout    time.Duration
}

// DefaultConnectOptions возвращает параметры с разумными таймаутами для адреса
func DefaultConnectOptions(addr, password string, db int) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		Password:       password,
		DB:             db,
		ConnectTimeout: 30 * time.Second,
		RetryInterval:  500 * time.Millisecond,
		MaxWait:        5 * time.Second,
		PingTimeout:    2 * time.Second,
	}
}

// Connect создает клиента Redis и ждет ответа на ping с экспоненциальной паузой между попытками
func Connect(ctx context.Context, opts ConnectOptions, log Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	wait := opts.RetryInterval
	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			log.Info("Connected to redis (addr=%s, attempts=%d)", opts.Addr, attempt)
			return client, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = client.Close()
			return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrUnavailable, opts.Addr, attempt, err)
		case <-timer.C:
			log.Warn("Redis connection failed (addr=%s, attempt=%d), retrying in %s: %v", opts.Addr, attempt, wait, err)
			wait *= 2
			if wait > opts.MaxWait {
				wait = opts.MaxWait
			}
		}
	}
}

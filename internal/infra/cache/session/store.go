package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Store хранит состояние отправки формы для каждой сессии браузера.
// Состояние submitting держится отдельным ключом-блокировкой с TTL,
// чтобы зависшая отправка не блокировала сессию навсегда
type Store struct {
	client        redis.Cmdable
	prefix        string
	submittingTTL time.Duration
	stateTTL      time.Duration
}

// NewStore создает хранилище состояний сессий
func NewStore(client redis.Cmdable, prefix string, submittingTTL, stateTTL time.Duration) *Store {
	return &Store{
		client:        client,
		prefix:        prefix,
		submittingTTL: submittingTTL,
		stateTTL:      stateTTL,
	}
}

func (s *Store) lockKey(sessionID string) string {
	return s.prefix + sessionID + ":submitting"
}

func (s *Store) stateKey(sessionID string) string {
	return s.prefix + sessionID + ":state"
}

// Begin атомарно переводит сессию в submitting.
// Если отправка уже идет, возвращает ErrSubmissionInProgress
func (s *Store) Begin(ctx context.Context, sessionID string) error {
	acquired, err := s.client.SetNX(ctx, s.lockKey(sessionID), string(domain.StateSubmitting), s.submittingTTL).Result()
	if err != nil {
		return fmt.Errorf("%w: setnx: %v", ErrRedis, err)
	}
	if !acquired {
		return ErrSubmissionInProgress
	}

	if err := s.client.Set(ctx, s.stateKey(sessionID), string(domain.StateSubmitting), s.stateTTL).Err(); err != nil {
		return fmt.Errorf("%w: set state: %v", ErrRedis, err)
	}
	return nil
}

// Finish фиксирует итоговое состояние отправки и снимает блокировку
func (s *Store) Finish(ctx context.Context, sessionID string, state domain.SubmissionState) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.stateKey(sessionID), string(state), s.stateTTL)
	pipe.Del(ctx, s.lockKey(sessionID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: finish: %v", ErrRedis, err)
	}
	return nil
}

// SetState записывает состояние, не трогая блокировку отправки
func (s *Store) SetState(ctx context.Context, sessionID string, state domain.SubmissionState) error {
	if err := s.client.Set(ctx, s.stateKey(sessionID), string(state), s.stateTTL).Err(); err != nil {
		return fmt.Errorf("%w: set state: %v", ErrRedis, err)
	}
	return nil
}

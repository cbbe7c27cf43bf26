package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Store хранит снимок журнала бронирований одним JSON объектом:
// {"yyyy-MM-dd": ["09:00", ...]}
type Store struct {
	client redis.Cmdable
	key    string
}

// NewStore создает хранилище снимка под ключом key
func NewStore(client redis.Cmdable, key string) *Store {
	return &Store{client: client, key: key}
}

// Save полностью перезаписывает снимок
func (s *Store) Save(ctx context.Context, ledger domain.BookingLedger) error {
	if ledger == nil {
		ledger = domain.BookingLedger{}
	}

	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrRedis, s.key, err)
	}
	return nil
}

// Load читает снимок; при отсутствии ключа возвращает ErrNotFound
func (s *Store) Load(ctx context.Context) (domain.BookingLedger, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrRedis, s.key, err)
	}

	ledger := make(domain.BookingLedger)
	if err := json.Unmarshal(payload, &ledger); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ledger, nil
}

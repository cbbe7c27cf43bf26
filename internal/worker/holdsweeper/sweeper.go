package holdsweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ErrSweep возвращается, когда не удалось перевести просроченные hold в expired
var ErrSweep = errors.New("holdsweeper: failed to expire holds")

// Sweeper периодически освобождает слоты, чья оплата не подтверждена за hold TTL
type Sweeper struct {
	repo         ReservationRepository
	publisher    LedgerPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	interval     time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSweeper создает новый sweeper
func NewSweeper(
	repo ReservationRepository,
	publisher LedgerPublisher,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		repo:         repo,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
		interval:     interval,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start выполняет первый проход сразу, затем запускает фоновый цикл
func (s *Sweeper) Start(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("HoldSweeper: initial sweep failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					s.logger.Error("HoldSweeper: sweep failed: %v", err)
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop останавливает цикл и ждет завершения текущего прохода.
// Вызывать только после Start
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
}

// Sweep переводит просроченные hold в expired и возвращает их количество
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ids, err := s.repo.ExpireHolds(ctx, s.timeProvider.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSweep, err)
	}

	if len(ids) == 0 {
		s.logger.Debug("HoldSweeper: no expired holds")
		return 0, nil
	}

	for _, id := range ids {
		s.metrics.IncReservation(string(domain.StatusExpired))
		s.logger.Info("HoldSweeper: reservation id=%s expired", id)
	}

	s.publisher.Publish(ctx)

	return len(ids), nil
}

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	ledgerCache "github.com/m04kA/SMC-SalonBooking/internal/infra/cache/ledger"
)

// Service публикует и отдает снимок журнала бронирований.
// Снимок строится из активных резерваций начиная с сегодняшнего дня
type Service struct {
	reservationRepo ReservationRepository
	store           SnapshotStore
	failures        FailureCounter
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса журнала
func NewService(
	reservationRepo ReservationRepository,
	store SnapshotStore,
	failures FailureCounter,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		store:           store,
		failures:        failures,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Publish перестраивает журнал из БД и полностью перезаписывает снимок.
// Ошибки только логируются: потеря снимка не влияет на бронирование
func (s *Service) Publish(ctx context.Context) {
	ledger, err := s.reservationRepo.LedgerFrom(ctx, s.timeProvider.Now())
	if err != nil {
		s.failures.IncSnapshotFailure()
		s.logger.Warn("PublishLedger: failed to build ledger: %v", err)
		return
	}

	if err := s.store.Save(ctx, ledger); err != nil {
		s.failures.IncSnapshotFailure()
		s.logger.Warn("PublishLedger: failed to save snapshot: %v", err)
		return
	}

	s.logger.Info("PublishLedger: snapshot saved (%d dates)", len(ledger))
}

// Get возвращает журнал из снимка; при промахе или ошибке кэша строит его из БД и публикует заново
func (s *Service) Get(ctx context.Context) (domain.BookingLedger, error) {
	ledger, err := s.store.Load(ctx)
	if err == nil {
		return s.dropPast(ledger), nil
	}

	if errors.Is(err, ledgerCache.ErrNotFound) {
		s.logger.Info("GetLedger: snapshot not found, rebuilding from database")
	} else {
		s.logger.Warn("GetLedger: failed to load snapshot, rebuilding from database: %v", err)
	}

	ledger, err = s.reservationRepo.LedgerFrom(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("GetLedger: failed to build ledger: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.store.Save(ctx, ledger); err != nil {
		s.failures.IncSnapshotFailure()
		s.logger.Warn("GetLedger: failed to save snapshot: %v", err)
	}

	return ledger, nil
}

// dropPast убирает из снимка прошедшие даты: снимок мог быть записан вчера
func (s *Service) dropPast(ledger domain.BookingLedger) domain.BookingLedger {
	today := domain.DateKey(s.timeProvider.Now())
	out := make(domain.BookingLedger, len(ledger))
	for date, slots := range ledger {
		if date >= today {
			out[date] = slots
		}
	}
	return out
}

package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	slots           *domain.DailySlots
	policy          domain.BookingPolicy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slots *domain.DailySlots,
	policy domain.BookingPolicy,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		slots:           slots,
		policy:          policy,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Без даты возвращается полный набор слотов; слоты пересчитываются на каждый запрос
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Дата не выбрана - полный набор
	if req.Date.IsZero() {
		uc.logger.Info("GetAvailableSlots: no date selected, returning full slot set")
		return &Response{
			AllSlots:  uc.slots.All(),
			Available: domain.AvailableSlots(nil, uc.slots, req.Date),
			Booked:    nil,
		}, nil
	}

	dateKey := domain.DateKey(req.Date)
	uc.logger.Info("GetAvailableSlots: date=%s", dateKey)

	// 2. Валидация даты
	now := uc.timeProvider.Now()
	if err := validateDate(uc.policy, req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Журнал на дату из БД
	booked, err := uc.reservationRepo.BookedSlots(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked slots for %s: %v", dateKey, err)
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}
	ledger := domain.BookingLedger{dateKey: booked}

	// 4. Свободные слоты, на сегодня с учетом минимального времени до визита
	available := domain.AvailableSlots(ledger, uc.slots, req.Date)
	available = uc.policy.FilterByNotice(available, req.Date, now)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available on %s", len(available), uc.slots.Len(), dateKey)

	return &Response{
		Date:      req.Date,
		AllSlots:  uc.slots.All(),
		Available: available,
		Booked:    booked,
	}, nil
}

package settle_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
)

// UseCase use case для применения исхода оплаты к резервации
type UseCase struct {
	repo         ReservationRepository
	gateway      PaymentGateway
	publisher    LedgerPublisher
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repo ReservationRepository,
	gateway PaymentGateway,
	publisher LedgerPublisher,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		repo:         repo,
		gateway:      gateway,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute подтверждает, освобождает или сохраняет hold по возврату из checkout.
// Повторный возврат с тем же исходом не меняет резервацию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SettlePayment: outcome=%s, reference=%s, payment=%s, status=%s",
		req.Outcome, req.ExternalReference, req.PaymentID, req.CollectionStatus)

	// 1. Валидация входных данных
	id, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("SettlePayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Статус платежа из шлюза, до транзакции
	paymentID := strings.TrimSpace(req.PaymentID)
	if strings.EqualFold(paymentID, "null") {
		paymentID = ""
	}
	paymentStatus, err := uc.verifyPayment(ctx, id, paymentID)
	if err != nil {
		return nil, err
	}

	act := resolveAction(req.Outcome, paymentStatus)

	var (
		result  *domain.Reservation
		changed bool
	)

	// 3. Переход статуса под блокировкой строки
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := uc.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		if req.PreferenceID != "" && req.PreferenceID != res.PreferenceID {
			return fmt.Errorf("%w: got %s, reservation has %s", ErrPreferenceMismatch, req.PreferenceID, res.PreferenceID)
		}

		result = res

		changed, err = applyAction(res, act, paymentID, uc.timeProvider.Now())
		if err != nil || !changed {
			return err
		}

		if err := uc.repo.UpdateStatus(txCtx, res); err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
			}
			return fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound), errors.Is(err, ErrPreferenceMismatch),
			errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSlotUnavailable):
			uc.logger.Warn("SettlePayment: reservation id=%s: %v", id, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("SettlePayment: reservation id=%s: %v", id, err)
			return nil, err
		default:
			uc.logger.Error("SettlePayment: reservation id=%s: transaction failed: %v", id, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	// 4. Метрики и снимок журнала
	if changed {
		uc.metrics.IncReservation(string(result.Status))
		uc.publisher.Publish(ctx)
		uc.logger.Info("SettlePayment: reservation id=%s is now %s", result.ID, result.Status)
	}

	return &Response{
		ReservationID: result.ID,
		Status:        result.Status,
		Changed:       changed,
		ServiceName:   result.ServiceName,
		Date:          result.Date,
		Time:          result.StartTime,
		ClientName:    result.ClientName,
	}, nil
}

// verifyPayment возвращает статус платежа из шлюза; пустую строку, если платеж не передан.
// Платеж должен ссылаться на эту же резервацию
func (uc *UseCase) verifyPayment(ctx context.Context, reservationID uuid.UUID, paymentID string) (string, error) {
	if paymentID == "" {
		return "", nil
	}

	payment, err := uc.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, mercadopago.ErrPaymentNotFound) || errors.Is(err, mercadopago.ErrInvalidRequest) {
			uc.logger.Warn("SettlePayment: payment=%s rejected: %v", paymentID, err)
			return "", fmt.Errorf("%w: payment %s: %v", ErrPaymentMismatch, paymentID, err)
		}
		uc.logger.Error("SettlePayment: failed to look up payment=%s: %v", paymentID, err)
		return "", fmt.Errorf("%w: %v", ErrPaymentLookup, err)
	}

	if payment.ExternalReference != reservationID.String() {
		uc.logger.Warn("SettlePayment: payment=%s belongs to reference=%s, not %s",
			paymentID, payment.ExternalReference, reservationID)
		return "", fmt.Errorf("%w: payment %s references %q", ErrPaymentMismatch, paymentID, payment.ExternalReference)
	}

	return payment.Status, nil
}

// applyAction меняет статус резервации; false, если менять нечего
func applyAction(res *domain.Reservation, act action, paymentID string, now time.Time) (bool, error) {
	var err error

	switch act {
	case actionConfirm:
		if res.Status == domain.StatusConfirmed {
			return false, nil
		}
		err = res.Confirm(paymentID, now)
	case actionRelease:
		if res.Status == domain.StatusReleased || res.Status == domain.StatusExpired {
			return false, nil
		}
		err = res.Release(now)
	default:
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return true, nil
}

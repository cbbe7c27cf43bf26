package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	sessionStore "github.com/m04kA/SMC-SalonBooking/internal/infra/cache/session"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
)

// Исходы отправки для метрик
const (
	outcomeValidationFailed = "validation_failed"
	outcomeInProgress       = "in_progress"
	outcomeGatewayError     = "gateway_error"
	outcomeSlotUnavailable  = "slot_unavailable"
	outcomeSuccess          = "success"
	outcomeInternalError    = "internal_error"
)

// UseCase use case для отправки формы бронирования
type UseCase struct {
	repo         ReservationRepository
	gateway      PaymentGateway
	sessions     SessionStore
	publisher    LedgerPublisher
	txManager    TransactionManager
	metrics      Metrics
	catalog      *domain.Catalog
	slots        *domain.DailySlots
	policy       domain.BookingPolicy
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repo ReservationRepository,
	gateway PaymentGateway,
	sessions SessionStore,
	publisher LedgerPublisher,
	txManager TransactionManager,
	metrics Metrics,
	catalog *domain.Catalog,
	slots *domain.DailySlots,
	policy domain.BookingPolicy,
	opts Options,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		repo:         repo,
		gateway:      gateway,
		sessions:     sessions,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		catalog:      catalog,
		slots:        slots,
		policy:       policy,
		opts:         opts,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute проверяет форму, создает preference в Mercado Pago и удерживает слот.
// Слот занимается только после успешного ответа шлюза
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("SubmitBooking: session=%s, service=%q, date=%s, time=%s",
		req.SessionID, req.ServiceName, domain.DateKey(req.Date), req.Time)

	now := uc.timeProvider.Now()

	// 1. Контактные данные
	if err := validateContact(req); err != nil {
		return nil, uc.rejectInvalid(ctx, req, err)
	}

	// 2. Дата и время
	if err := validateSchedule(uc.policy, req, now); err != nil {
		return nil, uc.rejectInvalid(ctx, req, err)
	}

	// 3. Слот свободен по текущему журналу
	booked, err := uc.repo.BookedSlots(ctx, req.Date)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to get booked slots: %v", err)
		uc.metrics.IncSubmission(outcomeInternalError)
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}
	if err := checkSlot(ledgerFor(req, booked), uc.slots, uc.policy, req.Date, req.Time, now); err != nil {
		return nil, uc.rejectInvalid(ctx, req, err)
	}

	// 4. Услуга и способ оплаты
	service, method, err := resolveService(uc.catalog, req)
	if err != nil {
		return nil, uc.rejectInvalid(ctx, req, err)
	}

	// Дальше запрос к шлюзу: preference создается даже при обрыве соединения браузера,
	// поэтому hold и состояние сессии дописываются без отмены. Время ограничено таймаутом клиента
	ctx = context.WithoutCancel(ctx)

	// 5. Блокировка повторной отправки в рамках сессии
	locked := false
	if req.SessionID != "" {
		switch beginErr := uc.sessions.Begin(ctx, req.SessionID); {
		case beginErr == nil:
			locked = true
		case errors.Is(beginErr, sessionStore.ErrSubmissionInProgress):
			uc.logger.Warn("SubmitBooking: session=%s already submitting", req.SessionID)
			uc.metrics.IncSubmission(outcomeInProgress)
			return nil, ErrSubmissionInProgress
		default:
			uc.logger.Warn("SubmitBooking: session store unavailable, continuing without lock: %v", beginErr)
		}
	}
	if locked {
		defer func() {
			state := domain.StateFailed
			if err == nil {
				state = domain.StateSuccessRedirect
			}
			if finishErr := uc.sessions.Finish(ctx, req.SessionID, state); finishErr != nil {
				uc.logger.Warn("SubmitBooking: failed to finish session=%s: %v", req.SessionID, finishErr)
			}
		}()
	}

	// 6. Нормализованный запрос
	booking := domain.BookingRequest{
		ServiceName:   service.Name,
		Price:         service.Price,
		PaymentMethod: method,
		Date:          req.Date,
		Time:          req.Time,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientPhone:   strings.TrimSpace(req.ClientPhone),
	}
	reservationID := uuid.New()

	// 7. Preference в платежном шлюзе
	pref, err := uc.gateway.CreatePreference(ctx, buildPreference(booking, reservationID, uc.opts))
	if err != nil {
		uc.metrics.IncSubmission(outcomeGatewayError)
		return nil, uc.mapGatewayError(err)
	}

	// 8. Удержание слота. Повторная проверка под блокировкой строк
	var hold *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booked, err := uc.repo.BookedSlots(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
		}

		now := uc.timeProvider.Now()
		ledger := ledgerFor(req, booked)
		if err := checkSlot(ledger, uc.slots, uc.policy, req.Date, req.Time, now); err != nil {
			return err
		}
		if _, err := domain.Reserve(ledger, uc.slots, req.Date, req.Time); err != nil {
			return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		}

		hold = domain.NewHold(reservationID, booking, pref.ID, req.SessionID, now, uc.opts.HoldTTL)
		if err := uc.repo.CreateHold(txCtx, hold); err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
			}
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrSlotUnavailable) && reservationRepo.IsSerializationFailure(err) {
		err = fmt.Errorf("%w: concurrent hold: %v", ErrSlotUnavailable, err)
	}
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			uc.logger.Warn("SubmitBooking: slot %s %s taken after preference=%s was created",
				domain.DateKey(req.Date), req.Time, pref.ID)
			uc.metrics.IncSubmission(outcomeSlotUnavailable)
			return nil, err
		}
		uc.logger.Error("SubmitBooking: failed to hold slot: %v", err)
		uc.metrics.IncSubmission(outcomeInternalError)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 9. Снимок журнала и ответ
	uc.metrics.IncReservation(string(domain.StatusHeld))
	uc.metrics.IncSubmission(outcomeSuccess)
	uc.publisher.Publish(ctx)

	initPoint := pref.InitPoint
	if initPoint == "" {
		initPoint = pref.SandboxInitPoint
	}

	uc.logger.Info("SubmitBooking: reservation id=%s held until %s, preference=%s",
		hold.ID, hold.HoldExpiresAt.Format("15:04:05"), pref.ID)

	return &Response{
		ReservationID: hold.ID,
		PreferenceID:  pref.ID,
		InitPoint:     initPoint,
		PublicKey:     uc.opts.PublicKey,
		State:         domain.StateSuccessRedirect,
		HoldExpiresAt: hold.HoldExpiresAt,
	}, nil
}

// rejectInvalid фиксирует отказ валидации; журнал не меняется
func (uc *UseCase) rejectInvalid(ctx context.Context, req *Request, err error) error {
	uc.logger.Warn("SubmitBooking: validation failed: %v", err)
	uc.metrics.IncSubmission(outcomeValidationFailed)

	if req.SessionID != "" {
		if stateErr := uc.sessions.SetState(ctx, req.SessionID, domain.StateFailed); stateErr != nil {
			uc.logger.Warn("SubmitBooking: failed to set session=%s state: %v", req.SessionID, stateErr)
		}
	}
	return err
}

// mapGatewayError переводит ошибку клиента Mercado Pago в ошибку use case
func (uc *UseCase) mapGatewayError(err error) error {
	if errors.Is(err, mercadopago.ErrMissingPreferenceID) {
		uc.logger.Error("SubmitBooking: gateway response without preference id")
		return ErrMissingPreferenceID
	}

	var apiErr *mercadopago.APIError
	if errors.As(err, &apiErr) {
		uc.logger.Warn("SubmitBooking: gateway rejected preference: status=%d, message=%q", apiErr.Status, apiErr.Message)
		return &GatewayError{Status: apiErr.Status, Message: apiErr.Message}
	}

	uc.logger.Error("SubmitBooking: gateway request failed: %v", err)
	return &GatewayError{Message: mercadopago.DefaultErrorMessage}
}

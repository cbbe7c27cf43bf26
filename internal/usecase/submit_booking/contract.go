package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	BookedSlots(ctx context.Context, date time.Time) ([]types.TimeString, error)
	CreateHold(ctx context.Context, res *domain.Reservation) error
}

// PaymentGateway интерфейс платежного шлюза (Mercado Pago)
type PaymentGateway interface {
	CreatePreference(ctx context.Context, pref *mercadopago.Preference) (*mercadopago.PreferenceResponse, error)
}

// SessionStore состояние отправки формы по сессиям
type SessionStore interface {
	Begin(ctx context.Context, sessionID string) error
	Finish(ctx context.Context, sessionID string, state domain.SubmissionState) error
	SetState(ctx context.Context, sessionID string, state domain.SubmissionState) error
}

// LedgerPublisher перезаписывает снимок журнала после изменения
type LedgerPublisher interface {
	Publish(ctx context.Context)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики исходов отправки и переходов резерваций
type Metrics interface {
	IncSubmission(outcome string)
	IncReservation(status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package settle_payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	// GetByID внутри транзакции блокирует строку (FOR UPDATE)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, res *domain.Reservation) error
}

// PaymentGateway источник достоверного статуса платежа (Mercado Pago)
type PaymentGateway interface {
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}

// LedgerPublisher перезаписывает снимок журнала после изменения
type LedgerPublisher interface {
	Publish(ctx context.Context)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик переходов резерваций
type Metrics interface {
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

package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ReservationRepository источник истины для журнала бронирований
type ReservationRepository interface {
	LedgerFrom(ctx context.Context, from time.Time) (domain.BookingLedger, error)
}

// SnapshotStore хранилище снимка журнала (Redis)
type SnapshotStore interface {
	Save(ctx context.Context, ledger domain.BookingLedger) error
	Load(ctx context.Context) (domain.BookingLedger, error)
}

// FailureCounter считает неудачные записи снимка
type FailureCounter interface {
	IncSnapshotFailure()
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

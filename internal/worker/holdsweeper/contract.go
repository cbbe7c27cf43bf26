package holdsweeper

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// LedgerPublisher перезаписывает снимок журнала после изменения
type LedgerPublisher interface {
	Publish(ctx context.Context)
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
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

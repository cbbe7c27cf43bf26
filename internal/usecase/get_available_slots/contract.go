package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	// BookedSlots возвращает занятые (held и confirmed) слоты на дату
	BookedSlots(ctx context.Context, date time.Time) ([]types.TimeString, error)
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

// RealTimeProvider реальный провайдер времени в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}

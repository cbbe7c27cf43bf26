package get_ledger

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type LedgerService interface {
	Get(ctx context.Context) (domain.BookingLedger, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

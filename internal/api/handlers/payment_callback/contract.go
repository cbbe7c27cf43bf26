package payment_callback

import (
	"context"
	"io"

	settlePayment "github.com/m04kA/SMC-SalonBooking/internal/usecase/settle_payment"
)

type SettlePaymentUseCase interface {
	Execute(ctx context.Context, req *settlePayment.Request) (*settlePayment.Response, error)
}

// Renderer *template.Template
type Renderer interface {
	ExecuteTemplate(w io.Writer, name string, data interface{}) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

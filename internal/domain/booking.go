package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// PaymentMethod способ оплаты, выбранный клиентом
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
)

// ParsePaymentMethod разбирает способ оплаты; пустое значение означает credit
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", PaymentCredit:
		return PaymentCredit, nil
	case PaymentDebit:
		return PaymentDebit, nil
	case PaymentPix:
		return PaymentPix, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
	}
}

// BookingRequest нормализованный запрос на бронирование, передается в платежный шлюз
type BookingRequest struct {
	ServiceName   string
	Price         decimal.Decimal
	PaymentMethod PaymentMethod
	Date          time.Time
	Time          types.TimeString
	ClientName    string
	ClientPhone   string
}

// Title заголовок позиции заказа для платежного шлюза
func (r BookingRequest) Title() string {
	return r.ServiceName
}

// Description описание позиции заказа: дата и время визита
func (r BookingRequest) Description() string {
	return fmt.Sprintf("%s %s, %s", r.Date.Format("02/01/2006"), r.Time, r.ClientName)
}

// SubmissionState состояние отправки формы в рамках сессии
type SubmissionState string

const (
	// StateIdle сессия без сохраненного состояния
	StateIdle            SubmissionState = "idle"
	StateSubmitting      SubmissionState = "submitting"
	StateSuccessRedirect SubmissionState = "success_redirect"
	StateFailed          SubmissionState = "failed"
)

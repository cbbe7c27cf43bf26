package settle_payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Outcome страница возврата из checkout
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomePending Outcome = "pending"
)

// Request параметры back_url, добавленные Mercado Pago.
// CollectionStatus только логируется: статус платежа читается из шлюза по PaymentID
type Request struct {
	Outcome           Outcome
	ExternalReference string
	PaymentID         string
	CollectionStatus  string
	PreferenceID      string
}

// Response модель ответа
type Response struct {
	ReservationID uuid.UUID
	Status        domain.ReservationStatus
	Changed       bool // false, если статус уже был установлен ранее или hold сохранен
	ServiceName   string
	Date          time.Time
	Time          types.TimeString
	ClientName    string
}

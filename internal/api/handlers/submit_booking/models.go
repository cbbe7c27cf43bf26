package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	submitBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// SubmitBookingRequest HTTP request model. Пустые дата и время допустимы
// на этом уровне: их отсутствие сообщается пользователю use case'ом
type SubmitBookingRequest struct {
	ClientName    string `json:"clientName" validate:"max=120"`
	ClientPhone   string `json:"clientPhone" validate:"max=32"`
	ServiceName   string `json:"serviceName" validate:"max=120"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,oneof=credit debit pix"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"` // "2025-10-15"
	Time          string `json:"time"`                                          // "10:00"
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	ReservationID string `json:"reservationId"`
	PreferenceID  string `json:"preferenceId"`
	InitPoint     string `json:"initPoint"`
	PublicKey     string `json:"publicKey"`
	State         string `json:"state"`
	HoldExpiresAt string `json:"holdExpiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(sessionID string) (*submitBooking.Request, error) {
	req := &submitBooking.Request{
		SessionID:     sessionID,
		ClientName:    r.ClientName,
		ClientPhone:   r.ClientPhone,
		ServiceName:   r.ServiceName,
		PaymentMethod: r.PaymentMethod,
	}

	if r.Date != "" {
		date, err := time.Parse(domain.DateFormat, r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = date
	}

	if r.Time != "" {
		slot, err := types.NewTimeStringFromString(r.Time)
		if err != nil {
			return nil, err
		}
		req.Time = slot
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		ReservationID: resp.ReservationID.String(),
		PreferenceID:  resp.PreferenceID,
		InitPoint:     resp.InitPoint,
		PublicKey:     resp.PublicKey,
		State:         string(resp.State),
		HoldExpiresAt: resp.HoldExpiresAt.Format(time.RFC3339),
	}
}

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ReservationStatus статус резервации слота
type ReservationStatus string

const (
	StatusHeld      ReservationStatus = "held"      // Preference создан, оплата ожидается
	StatusConfirmed ReservationStatus = "confirmed" // Оплата подтверждена
	StatusReleased  ReservationStatus = "released"  // Оплата не прошла, слот освобожден
	StatusExpired   ReservationStatus = "expired"   // Hold не подтвержден вовремя
)

// Reservation резервация слота, созданная после успешного ответа платежного шлюза
type Reservation struct {
	ID            uuid.UUID
	Date          time.Time
	StartTime     types.TimeString
	Status        ReservationStatus
	ServiceName   string
	Price         decimal.Decimal
	PaymentMethod PaymentMethod
	ClientName    string
	ClientPhone   string
	SessionID     string
	PreferenceID  string
	PaymentID     *string
	HoldExpiresAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewHold создает резервацию в статусе held для запроса бронирования
func NewHold(id uuid.UUID, req BookingRequest, preferenceID, sessionID string, now time.Time, ttl time.Duration) *Reservation {
	return &Reservation{
		ID:            id,
		Date:          req.Date,
		StartTime:     req.Time,
		Status:        StatusHeld,
		ServiceName:   req.ServiceName,
		Price:         req.Price,
		PaymentMethod: req.PaymentMethod,
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		SessionID:     sessionID,
		PreferenceID:  preferenceID,
		HoldExpiresAt: now.Add(ttl),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive returns true if the reservation occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status == StatusHeld || r.Status == StatusConfirmed
}

// Confirm переводит резервацию в confirmed.
// Допускается из held и из expired: оплата могла прийти после истечения hold
func (r *Reservation) Confirm(paymentID string, now time.Time) error {
	if r.Status != StatusHeld && r.Status != StatusExpired {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusConfirmed)
	}
	r.Status = StatusConfirmed
	if paymentID != "" {
		r.PaymentID = &paymentID
	}
	r.UpdatedAt = now
	return nil
}

// Release переводит held резервацию в released
func (r *Reservation) Release(now time.Time) error {
	if r.Status != StatusHeld {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusReleased)
	}
	r.Status = StatusReleased
	r.UpdatedAt = now
	return nil
}

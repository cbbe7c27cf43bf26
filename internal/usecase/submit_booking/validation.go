package submit_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateContact шаг 1: имя и телефон обязательны
func validateContact(req *Request) error {
	name := strings.TrimSpace(req.ClientName)
	phone := strings.TrimSpace(req.ClientPhone)

	if name == "" || phone == "" {
		return ErrMissingContact
	}
	if utf8.RuneCountInString(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}
	if utf8.RuneCountInString(phone) > domain.MaxClientPhoneLength {
		return fmt.Errorf("%w: phone is longer than %d characters", ErrInvalidInput, domain.MaxClientPhoneLength)
	}
	return nil
}

// validateSchedule шаг 2: дата и время выбраны, дата не в прошлом и в пределах горизонта
func validateSchedule(policy domain.BookingPolicy, req *Request, now time.Time) error {
	if req.Date.IsZero() || req.Time.IsZero() {
		return ErrMissingSchedule
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingSchedule, err)
	}

	err := policy.ValidateDate(req.Date, now)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDateInPast):
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	case errors.Is(err, domain.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// checkSlot шаг 3: время все еще среди свободных слотов на дату (с учетом минимального времени до визита)
func checkSlot(ledger domain.BookingLedger, slots *domain.DailySlots, policy domain.BookingPolicy, date time.Time, slot types.TimeString, now time.Time) error {
	available := policy.FilterByNotice(domain.AvailableSlots(ledger, slots, date), date, now)
	for _, s := range available {
		if s == slot {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", ErrSlotUnavailable, domain.DateKey(date), slot)
}

// resolveService шаг 4: услуга есть в каталоге, способ оплаты известен
func resolveService(catalog *domain.Catalog, req *Request) (domain.Service, domain.PaymentMethod, error) {
	service, ok := catalog.Find(req.ServiceName)
	if !ok {
		return domain.Service{}, "", fmt.Errorf("%w: %q", ErrUnknownService, req.ServiceName)
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return domain.Service{}, "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	return service, method, nil
}

// ledgerFor журнал на одну дату из занятых слотов
func ledgerFor(req *Request, booked []types.TimeString) domain.BookingLedger {
	if len(booked) == 0 {
		return domain.BookingLedger{}
	}
	return domain.BookingLedger{domain.DateKey(req.Date): booked}
}

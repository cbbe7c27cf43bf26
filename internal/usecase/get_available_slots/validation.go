package get_available_slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateDate проверяет, что дата подходит для бронирования
func validateDate(policy domain.BookingPolicy, requestDate, now time.Time) error {
	err := policy.ValidateDate(requestDate, now)
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

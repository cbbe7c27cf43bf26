package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// BookingPolicy ограничения на дату и время бронирования
type BookingPolicy struct {
	AdvanceBookingDays      int // 0 = без ограничения
	MinBookingNoticeMinutes int // минимальное время до начала слота для бронирования на сегодня
}

// DefaultBookingPolicy возвращает политику по умолчанию
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// ValidateDate проверяет, что дата не в прошлом и не дальше AdvanceBookingDays от now
func (p BookingPolicy) ValidateDate(date, now time.Time) error {
	if IsDateInPast(date, now) {
		return fmt.Errorf("%w: %s", ErrDateInPast, DateKey(date))
	}

	if p.AdvanceBookingDays == 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, p.AdvanceBookingDays)
	if calendarAfter(date, maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, p.AdvanceBookingDays)
	}

	return nil
}

// FilterByNotice убирает слоты сегодняшнего дня, начинающиеся раньше now + MinBookingNoticeMinutes.
// Для других дат слоты возвращаются без изменений
func (p BookingPolicy) FilterByNotice(slots []types.TimeString, date, now time.Time) []types.TimeString {
	if !IsSameDay(date, now) {
		return slots
	}

	minAllowed, err := types.NewTimeString(now).AddMinutes(p.MinBookingNoticeMinutes)
	if err != nil {
		// Порог за полночью: на сегодня ничего не осталось
		return []types.TimeString{}
	}

	out := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBefore(minAllowed) {
			out = append(out, slot)
		}
	}
	return out
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что календарная дата раньше сегодняшней
func IsDateInPast(date, now time.Time) bool {
	return calendarAfter(now, date)
}

// calendarAfter сравнивает только год, месяц и день
func calendarAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

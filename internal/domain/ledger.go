package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DateKey ключ журнала для календарной даты (yyyy-MM-dd)
func DateKey(date time.Time) string {
	return date.Format(DateFormat)
}

// BookingLedger журнал занятых слотов: дата (yyyy-MM-dd) -> занятые слоты в порядке бронирования.
// В пределах одной даты слот встречается не более одного раза.
// Значение передается в функции явно; Reserve возвращает новый журнал
type BookingLedger map[string][]types.TimeString

// Booked возвращает копию занятых слотов на дату
func (l BookingLedger) Booked(date time.Time) []types.TimeString {
	booked := l[DateKey(date)]
	out := make([]types.TimeString, len(booked))
	copy(out, booked)
	return out
}

// Clone возвращает глубокую копию журнала
func (l BookingLedger) Clone() BookingLedger {
	out := make(BookingLedger, len(l))
	for k, v := range l {
		slots := make([]types.TimeString, len(v))
		copy(slots, v)
		out[k] = slots
	}
	return out
}

// Dates возвращает ключи журнала по возрастанию
func (l BookingLedger) Dates() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AvailableSlots возвращает слоты из набора, не занятые на дату, в порядке набора.
// Для нулевой даты возвращается полный набор
func AvailableSlots(ledger BookingLedger, slots *DailySlots, date time.Time) []types.TimeString {
	if date.IsZero() {
		return slots.All()
	}

	booked := ledger[DateKey(date)]
	if len(booked) == 0 {
		return slots.All()
	}

	taken := make(map[types.TimeString]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	available := make([]types.TimeString, 0, slots.Len())
	for _, s := range slots.slots {
		if _, ok := taken[s]; !ok {
			available = append(available, s)
		}
	}
	return available
}

// IsAvailable проверяет, что слот свободен на дату
func IsAvailable(ledger BookingLedger, slots *DailySlots, date time.Time, slot types.TimeString) bool {
	if date.IsZero() || !slots.Contains(slot) {
		return false
	}
	for _, b := range ledger[DateKey(date)] {
		if b == slot {
			return false
		}
	}
	return true
}

// Reserve добавляет слот к дате и возвращает новый журнал.
// Если слот не свободен, возвращает ErrSlotUnavailable, исходный журнал не меняется
func Reserve(ledger BookingLedger, slots *DailySlots, date time.Time, slot types.TimeString) (BookingLedger, error) {
	if !IsAvailable(ledger, slots, date, slot) {
		return ledger, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, DateKey(date), slot)
	}

	key := DateKey(date)
	updated := make(BookingLedger, len(ledger)+1)
	for k, v := range ledger {
		updated[k] = v
	}

	// Копируем только изменяемую дату, остальные делят память с исходным журналом
	booked := make([]types.TimeString, len(ledger[key]), len(ledger[key])+1)
	copy(booked, ledger[key])
	updated[key] = append(booked, slot)

	return updated, nil
}

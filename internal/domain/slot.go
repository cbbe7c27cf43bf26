package domain

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DailySlots фиксированный упорядоченный набор слотов на день.
// Один и тот же для всех дат, создается при старте процесса
type DailySlots struct {
	slots []types.TimeString
	index map[types.TimeString]int
}

// NewDailySlots строит набор слотов от openTime (включительно) с шагом stepMinutes,
// последний слот должен начинаться не позже closeTime - stepMinutes
func NewDailySlots(openTime, closeTime types.TimeString, stepMinutes int) (*DailySlots, error) {
	if stepMinutes < MinSlotStepMinutes || stepMinutes > MaxSlotStepMinutes {
		return nil, fmt.Errorf("%w: step %d min out of [%d, %d]", ErrInvalidSlotRange, stepMinutes, MinSlotStepMinutes, MaxSlotStepMinutes)
	}

	open, err := openTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: open time: %v", ErrInvalidSlotRange, err)
	}
	closing := 24 * 60
	if closeTime != types.EndOfDay {
		if closing, err = closeTime.Minutes(); err != nil {
			return nil, fmt.Errorf("%w: close time: %v", ErrInvalidSlotRange, err)
		}
	}
	if closing-open < stepMinutes {
		return nil, fmt.Errorf("%w: %s-%s shorter than one slot", ErrInvalidSlotRange, openTime, closeTime)
	}

	ds := &DailySlots{
		index: make(map[types.TimeString]int),
	}
	for m := open; m+stepMinutes <= closing; m += stepMinutes {
		slot := types.TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
		ds.index[slot] = len(ds.slots)
		ds.slots = append(ds.slots, slot)
	}

	return ds, nil
}

// DefaultDailySlots возвращает почасовые слоты 09:00..18:00
func DefaultDailySlots() *DailySlots {
	ds, err := NewDailySlots(DefaultOpenTime, DefaultCloseTime, DefaultSlotStepMinutes)
	if err != nil {
		panic(err)
	}
	return ds
}

// All возвращает копию полного набора слотов
func (d *DailySlots) All() []types.TimeString {
	out := make([]types.TimeString, len(d.slots))
	copy(out, d.slots)
	return out
}

// Contains проверяет, что слот входит в расписание
func (d *DailySlots) Contains(slot types.TimeString) bool {
	_, ok := d.index[slot]
	return ok
}

// Len количество слотов в дне
func (d *DailySlots) Len() int {
	return len(d.slots)
}

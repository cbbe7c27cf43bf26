package domain

import "time"

// Default configuration values
const (
	DefaultOpenTime                = "09:00"
	DefaultCloseTime               = "19:00"
	DefaultSlotStepMinutes         = 60
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultHoldTTL                 = 30 * time.Minute
)

// Business validation constants
const (
	MinSlotStepMinutes    = 5
	MaxSlotStepMinutes    = 480 // 8 hours
	MaxAdvanceBookingDays = 365
	MaxClientNameLength   = 120
	MaxClientPhoneLength  = 32
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы резерваций, занимающих слот
// Используется для построения журнала бронирований
var ActiveStatuses = []ReservationStatus{
	StatusHeld,
	StatusConfirmed,
}

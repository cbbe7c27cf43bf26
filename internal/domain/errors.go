package domain

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда слот уже занят на эту дату или не входит в расписание
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrInvalidTransition возвращается при недопустимой смене статуса резервации
	ErrInvalidTransition = errors.New("invalid reservation status transition")

	// ErrInvalidPaymentMethod возвращается для неизвестного способа оплаты
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrDuplicateService возвращается, когда в каталоге два сервиса с одним именем
	ErrDuplicateService = errors.New("duplicate service name in catalog")

	// ErrNegativePrice возвращается для сервиса с отрицательной ценой
	ErrNegativePrice = errors.New("service price must not be negative")

	// ErrDateInPast возвращается для даты раньше сегодняшней
	ErrDateInPast = errors.New("booking date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта бронирования
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidSlotRange возвращается, когда расписание слотов задано некорректно
	ErrInvalidSlotRange = errors.New("invalid daily slot range")
)

package submit_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingContact возвращается, когда не заполнены имя или телефон
	ErrMissingContact = errors.New("fill in name and phone")

	// ErrMissingSchedule возвращается, когда не выбраны дата или время
	ErrMissingSchedule = errors.New("select date and time")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("submit_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("submit_booking: date is too far in the future")

	// ErrSlotUnavailable возвращается, когда выбранное время уже занято или недоступно
	ErrSlotUnavailable = errors.New("submit_booking: slot is no longer available")

	// ErrUnknownService возвращается, когда услуга не найдена в каталоге
	ErrUnknownService = errors.New("submit_booking: unknown service")

	// ErrInvalidPaymentMethod возвращается для неизвестного способа оплаты
	ErrInvalidPaymentMethod = errors.New("submit_booking: invalid payment method")

	// ErrInvalidInput возвращается, когда поле превышает допустимую длину
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrSubmissionInProgress возвращается, когда в этой сессии уже идет отправка
	ErrSubmissionInProgress = errors.New("submit_booking: submission already in progress")

	// ErrGateway возвращается при ошибке платежного шлюза (см. GatewayError)
	ErrGateway = errors.New("submit_booking: payment gateway error")

	// ErrMissingPreferenceID возвращается, когда шлюз ответил без идентификатора preference
	ErrMissingPreferenceID = errors.New("preference id not received")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)

// GatewayError ошибка платежного шлюза с сообщением для пользователя.
// Status = 0, если шлюз не ответил
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%v: %s", ErrGateway, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return ErrGateway
}

package mercadopago

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage сообщение, когда шлюз не прислал текст ошибки
const DefaultErrorMessage = "failed to create payment preference"

var (
	// ErrGateway возвращается при любой ошибке обращения к платежному шлюзу
	ErrGateway = errors.New("mercadopago client: gateway error")

	// ErrMissingPreferenceID возвращается, когда успешный ответ не содержит id
	ErrMissingPreferenceID = errors.New("preference id not received")

	// ErrPaymentNotFound возвращается, когда шлюз не знает платеж с таким id
	ErrPaymentNotFound = errors.New("mercadopago client: payment not found")

	// ErrInvalidRequest возвращается, когда preference не прошел локальную проверку
	ErrInvalidRequest = errors.New("mercadopago client: invalid preference request")
)

// APIError ответ шлюза со статусом не 2xx. Message передается пользователю как есть
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrGateway
}

package settle_payment

import "errors"

var (
	// ErrInvalidOutcome возвращается для неизвестного исхода оплаты
	ErrInvalidOutcome = errors.New("settle_payment: invalid payment outcome")

	// ErrInvalidReference возвращается, когда external_reference не является ID резервации
	ErrInvalidReference = errors.New("settle_payment: invalid external reference")

	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("settle_payment: reservation not found")

	// ErrPreferenceMismatch возвращается, когда preference_id не совпадает с сохраненным
	ErrPreferenceMismatch = errors.New("settle_payment: preference does not match reservation")

	// ErrPaymentMismatch возвращается, когда платеж не найден в шлюзе или относится к другой резервации
	ErrPaymentMismatch = errors.New("settle_payment: payment does not match reservation")

	// ErrPaymentLookup возвращается, когда шлюз не ответил на запрос статуса платежа
	ErrPaymentLookup = errors.New("settle_payment: failed to look up payment")

	// ErrInvalidTransition возвращается, когда исход нельзя применить к текущему статусу
	ErrInvalidTransition = errors.New("settle_payment: invalid reservation transition")

	// ErrSlotUnavailable возвращается, когда слот просроченного hold уже занят другим клиентом
	ErrSlotUnavailable = errors.New("settle_payment: slot was taken after the hold expired")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("settle_payment: internal error")
)

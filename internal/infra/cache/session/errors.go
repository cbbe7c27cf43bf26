package session

import "errors"

var (
	// ErrSubmissionInProgress возвращается, когда в сессии уже идет отправка формы
	ErrSubmissionInProgress = errors.New("session.cache: submission already in progress")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("session.cache: redis error")
)

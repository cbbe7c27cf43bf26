package ledger

import "errors"

var (
	// ErrInternal возвращается, когда журнал не удалось получить ни из кэша, ни из БД
	ErrInternal = errors.New("ledger service: internal error")
)

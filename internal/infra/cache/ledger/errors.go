package ledger

import "errors"

var (
	// ErrNotFound возвращается, когда снимок журнала отсутствует в кэше
	ErrNotFound = errors.New("ledger.cache: snapshot not found")

	// ErrEncode возвращается при ошибке сериализации журнала
	ErrEncode = errors.New("ledger.cache: failed to encode snapshot")

	// ErrDecode возвращается при ошибке разбора снимка
	ErrDecode = errors.New("ledger.cache: failed to decode snapshot")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("ledger.cache: redis error")
)

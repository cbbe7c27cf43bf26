package mercadopago

import "time"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Observer получает результат и длительность каждого вызова API
type Observer interface {
	ObserveGateway(result string, elapsed time.Duration)
}

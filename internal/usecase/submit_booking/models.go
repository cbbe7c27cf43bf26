package submit_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель отправки формы бронирования
type Request struct {
	SessionID     string           // ID сессии браузера (cookie)
	ClientName    string           // Имя клиента
	ClientPhone   string           // Телефон клиента
	ServiceName   string           // Название услуги из каталога
	PaymentMethod string           // credit, debit, pix; пусто = credit
	Date          time.Time        // Дата визита (нулевая, если не выбрана)
	Time          types.TimeString // Время визита (пустое, если не выбрано)
}

// Response модель ответа: данные для передачи в виджет оплаты
type Response struct {
	ReservationID uuid.UUID              // ID резервации (external_reference)
	PreferenceID  string                 // ID preference в Mercado Pago
	InitPoint     string                 // URL страницы оплаты
	PublicKey     string                 // Публичный ключ для инициализации виджета
	State         domain.SubmissionState // success_redirect
	HoldExpiresAt time.Time              // До какого времени слот удерживается
}

// Options параметры use case из конфигурации
type Options struct {
	SiteURL             string        // Базовый URL сайта для back_urls
	PublicKey           string        // Публичный ключ Mercado Pago
	HoldTTL             time.Duration // Время удержания слота до подтверждения оплаты
	StatementDescriptor string        // Текст в выписке покупателя
}

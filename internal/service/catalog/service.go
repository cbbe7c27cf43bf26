package catalog

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// Service отдает справочные данные для формы бронирования
type Service struct {
	catalog *domain.Catalog
	slots   *domain.DailySlots
	policy  domain.BookingPolicy
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalog *domain.Catalog, slots *domain.DailySlots, policy domain.BookingPolicy) *Service {
	return &Service{
		catalog: catalog,
		slots:   slots,
		policy:  policy,
	}
}

// GetCatalog возвращает каталог услуг по категориям, набор слотов и способы оплаты
func (s *Service) GetCatalog() *models.CatalogResponse {
	resp := &models.CatalogResponse{
		Categories: make([]models.CategoryResponse, 0, 2),
		Slots:      make([]string, 0, s.slots.Len()),
		PaymentMethods: []string{
			string(domain.PaymentCredit),
			string(domain.PaymentDebit),
			string(domain.PaymentPix),
		},
		AdvanceBookingDays:      s.policy.AdvanceBookingDays,
		MinBookingNoticeMinutes: s.policy.MinBookingNoticeMinutes,
	}

	for _, c := range s.catalog.Categories() {
		resp.Categories = append(resp.Categories, models.FromDomainCategory(c, s.catalog.ByCategory(c)))
	}
	for _, slot := range s.slots.All() {
		resp.Slots = append(resp.Slots, slot.String())
	}

	return resp
}

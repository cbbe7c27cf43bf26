package models

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogResponse каталог услуг, сгруппированный по категориям, и параметры формы бронирования
type CatalogResponse struct {
	Categories              []CategoryResponse `json:"categories"`
	Slots                   []string           `json:"slots"`
	PaymentMethods          []string           `json:"paymentMethods"`
	AdvanceBookingDays      int                `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int                `json:"minBookingNoticeMinutes"`
}

// CategoryResponse категория каталога
type CategoryResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Services []ServiceResponse `json:"services"`
}

// ServiceResponse услуга с ценой, отформатированной с двумя знаками
type ServiceResponse struct {
	Name       string `json:"name"`
	Price      string `json:"price"`
	PriceLabel string `json:"priceLabel"`
}

// categoryTitles заголовки категорий на странице бронирования
var categoryTitles = map[domain.Category]string{
	domain.CategoryNails:    "Serviços de Unhas",
	domain.CategoryEyebrows: "Serviços de Sobrancelha",
}

// FromDomainService конвертирует услугу в модель ответа
func FromDomainService(s domain.Service) ServiceResponse {
	price := s.Price.StringFixed(2)
	return ServiceResponse{
		Name:       s.Name,
		Price:      price,
		PriceLabel: "R$" + price,
	}
}

// FromDomainCategory конвертирует категорию и её услуги в модель ответа
func FromDomainCategory(c domain.Category, services []domain.Service) CategoryResponse {
	title, ok := categoryTitles[c]
	if !ok {
		title = string(c)
	}

	out := CategoryResponse{
		ID:       string(c),
		Title:    title,
		Services: make([]ServiceResponse, 0, len(services)),
	}
	for _, s := range services {
		out.Services = append(out.Services, FromDomainService(s))
	}
	return out
}

package index

import (
	"bytes"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-SalonBooking/internal/web"
)

// PageData данные страницы бронирования
type PageData struct {
	SDKURL         string
	PublicKey      string
	Catalog        *models.CatalogResponse
	Today          string
	MaxDate        string // пусто, если горизонт не ограничен
	MaxNameLength  int
	MaxPhoneLength int
}

type Handler struct {
	service      CatalogService
	renderer     Renderer
	publicKey    string
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(service CatalogService, renderer Renderer, publicKey string, timeProvider TimeProvider, logger Logger) *Handler {
	return &Handler{
		service:      service,
		renderer:     renderer,
		publicKey:    publicKey,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Handle GET /
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	catalog := h.service.GetCatalog()
	today := h.timeProvider.Now()

	data := PageData{
		SDKURL:         web.MercadoPagoSDK,
		PublicKey:      h.publicKey,
		Catalog:        catalog,
		Today:          today.Format(domain.DateFormat),
		MaxNameLength:  domain.MaxClientNameLength,
		MaxPhoneLength: domain.MaxClientPhoneLength,
	}
	if catalog.AdvanceBookingDays > 0 {
		data.MaxDate = today.AddDate(0, 0, catalog.AdvanceBookingDays).Format(domain.DateFormat)
	}

	var buf bytes.Buffer
	if err := h.renderer.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.logger.Error("GET / - Failed to render page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

package get_catalog

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/catalog
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	response := h.service.GetCatalog()

	h.logger.Info("GET /catalog - Catalog retrieved: categories=%d", len(response.Categories))
	handlers.RespondJSON(w, http.StatusOK, response)
}

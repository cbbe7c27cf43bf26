package get_ledger

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

type Handler struct {
	service LedgerService
	logger  Logger
}

func NewHandler(service LedgerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/ledger
// Ответ: {"yyyy-MM-dd": ["09:00", ...]} начиная с сегодняшней даты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("GET /ledger - Failed to get ledger: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /ledger - Ledger retrieved: dates=%d", len(ledger))
	handlers.RespondJSON(w, http.StatusOK, ledger)
}

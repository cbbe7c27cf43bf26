package payment_callback

import (
	"bytes"
	"errors"
	"net/http"

	settlePayment "github.com/m04kA/SMC-SalonBooking/internal/usecase/settle_payment"
)

var (
	pageInvalidLink = ResultPage{
		Kind:    "failure",
		Title:   "Link Inválido",
		Message: "Não foi possível identificar o agendamento",
	}
	pageSlotTaken = ResultPage{
		Kind:    "failure",
		Title:   "Horário Indisponível",
		Message: "O pagamento chegou após o prazo de reserva e o horário já foi ocupado. Entre em contato com o salão",
	}
	pageError = ResultPage{
		Kind:    "failure",
		Title:   "Erro ao Processar Pagamento",
		Message: "Por favor, tente novamente mais tarde",
	}
)

type Handler struct {
	useCase  SettlePaymentUseCase
	renderer Renderer
	logger   Logger
}

func NewHandler(useCase SettlePaymentUseCase, renderer Renderer, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		renderer: renderer,
		logger:   logger,
	}
}

// Handle GET /success, /failure, /pending
// Query params: external_reference, payment_id, collection_status, preference_id
func (h *Handler) Handle(outcome settlePayment.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := ToUseCaseRequest(outcome, r)

		result, err := h.useCase.Execute(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, settlePayment.ErrInvalidReference),
				errors.Is(err, settlePayment.ErrReservationNotFound),
				errors.Is(err, settlePayment.ErrPreferenceMismatch),
				errors.Is(err, settlePayment.ErrPaymentMismatch):
				h.logger.Warn("GET /%s - Invalid callback: reference=%s, error=%v", outcome, req.ExternalReference, err)
				h.render(w, http.StatusNotFound, pageInvalidLink)

			case errors.Is(err, settlePayment.ErrSlotUnavailable):
				h.logger.Error("GET /%s - Paid after hold expired, slot taken: reference=%s, payment=%s",
					outcome, req.ExternalReference, req.PaymentID)
				h.render(w, http.StatusConflict, pageSlotTaken)

			case errors.Is(err, settlePayment.ErrPaymentLookup):
				h.logger.Error("GET /%s - Payment lookup failed: reference=%s, payment=%s, error=%v",
					outcome, req.ExternalReference, req.PaymentID, err)
				h.render(w, http.StatusBadGateway, pageError)

			case errors.Is(err, settlePayment.ErrInvalidTransition):
				h.logger.Warn("GET /%s - Invalid transition: reference=%s, error=%v", outcome, req.ExternalReference, err)
				h.render(w, http.StatusConflict, pageError)

			default:
				h.logger.Error("GET /%s - Failed to settle payment: reference=%s, error=%v", outcome, req.ExternalReference, err)
				h.render(w, http.StatusInternalServerError, pageError)
			}
			return
		}

		h.logger.Info("GET /%s - Reservation id=%s status=%s changed=%t",
			outcome, result.ReservationID, result.Status, result.Changed)
		h.render(w, http.StatusOK, FromUseCaseResponse(result))
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, page ResultPage) {
	var buf bytes.Buffer
	if err := h.renderer.ExecuteTemplate(&buf, "result.html", page); err != nil {
		h.logger.Error("Failed to render result page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	submitBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody   = "corpo da requisição inválido"
	msgInvalidSchedule      = "data ou horário em formato inválido"
	msgMissingContact       = "Por favor, preencha nome e telefone"
	msgMissingSchedule      = "Por favor, selecione data e horário"
	msgDateInPast           = "não é possível agendar em uma data passada"
	msgDateTooFar           = "data muito distante para agendamento"
	msgSlotUnavailable      = "este horário não está mais disponível, escolha outro"
	msgUnknownService       = "Serviço não selecionado"
	msgInvalidPaymentMethod = "forma de pagamento inválida"
	msgInvalidInput         = "dados inválidos"
	msgInProgress           = "seu agendamento já está sendo processado"
	msgGatewayError         = "Erro ao criar preferência de pagamento"
	msgMissingPreferenceID  = "ID de preferência não recebido"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput+": "+err.Error())
		return
	}

	sessionID := middleware.SessionID(r.Context())

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(sessionID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse schedule: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, sessionID, err)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Slot held: reservation_id=%s, preference_id=%s, session=%s",
		response.ReservationID, response.PreferenceID, sessionID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, sessionID string, err error) {
	var gwErr *submitBooking.GatewayError

	switch {
	case errors.Is(err, submitBooking.ErrMissingContact):
		handlers.RespondBadRequest(w, msgMissingContact)

	case errors.Is(err, submitBooking.ErrMissingSchedule):
		handlers.RespondBadRequest(w, msgMissingSchedule)

	case errors.Is(err, submitBooking.ErrInvalidDate):
		handlers.RespondBadRequest(w, msgDateInPast)

	case errors.Is(err, submitBooking.ErrDateTooFarInFuture):
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, submitBooking.ErrUnknownService):
		handlers.RespondBadRequest(w, msgUnknownService)

	case errors.Is(err, submitBooking.ErrInvalidPaymentMethod):
		handlers.RespondBadRequest(w, msgInvalidPaymentMethod)

	case errors.Is(err, submitBooking.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, submitBooking.ErrSlotUnavailable):
		h.logger.Warn("POST /bookings - Slot unavailable: session=%s", sessionID)
		handlers.RespondConflict(w, msgSlotUnavailable)

	case errors.Is(err, submitBooking.ErrSubmissionInProgress):
		h.logger.Warn("POST /bookings - Submission in progress: session=%s", sessionID)
		handlers.RespondConflict(w, msgInProgress)

	case errors.Is(err, submitBooking.ErrMissingPreferenceID):
		h.logger.Error("POST /bookings - Preference id not received: session=%s", sessionID)
		handlers.RespondError(w, http.StatusBadGateway, msgMissingPreferenceID)

	case errors.As(err, &gwErr):
		// Сообщение шлюза передается пользователю без изменений
		message := gwErr.Message
		if gwErr.Status == 0 || message == "" {
			message = msgGatewayError
		}
		h.logger.Warn("POST /bookings - Gateway error: status=%d, message=%q, session=%s",
			gwErr.Status, gwErr.Message, sessionID)
		handlers.RespondError(w, gatewayStatus(gwErr.Status), message)

	default:
		h.logger.Error("POST /bookings - Failed to submit booking: session=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
	}
}

// gatewayStatus статус ответа шлюза; 502, если шлюз не ответил
func gatewayStatus(status int) int {
	if status < http.StatusBadRequest || status > 599 {
		return http.StatusBadGateway
	}
	return status
}

package submit_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	submitBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *submitBooking.Request) (*submitBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submitBooking.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

const validBody = `{"clientName":"Ana","clientPhone":"11999990000","serviceName":"Manicure","paymentMethod":"pix","date":"2024-06-01","time":"10:00"}`

func doRequest(t *testing.T, uc *mockUseCase, body string) (*httptest.ResponseRecorder, handlers.ErrorResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, req)

	var errBody handlers.ErrorResponse
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	}
	return rec, errBody
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	id := uuid.New()
	uc.On("Execute", mock.Anything, &submitBooking.Request{
		SessionID:     "sess-1",
		ClientName:    "Ana",
		ClientPhone:   "11999990000",
		ServiceName:   "Manicure",
		PaymentMethod: "pix",
		Date:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:          types.TimeString("10:00"),
	}).Return(&submitBooking.Response{
		ReservationID: id,
		PreferenceID:  "pref-1",
		InitPoint:     "https://init",
		PublicKey:     "pk",
		State:         domain.StateSuccessRedirect,
		HoldExpiresAt: time.Date(2024, 5, 30, 10, 30, 0, 0, time.UTC),
	}, nil)

	rec, _ := doRequest(t, uc, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body SubmitBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body.ReservationID)
	assert.Equal(t, "pref-1", body.PreferenceID)
	assert.Equal(t, "success_redirect", body.State)
	assert.Equal(t, "2024-05-30T10:30:00Z", body.HoldExpiresAt)
	uc.AssertExpectations(t)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"missing contact", submitBooking.ErrMissingContact, http.StatusBadRequest, msgMissingContact},
		{"missing schedule", submitBooking.ErrMissingSchedule, http.StatusBadRequest, msgMissingSchedule},
		{"slot taken", submitBooking.ErrSlotUnavailable, http.StatusConflict, msgSlotUnavailable},
		{"in progress", submitBooking.ErrSubmissionInProgress, http.StatusConflict, msgInProgress},
		{"gateway message verbatim", &submitBooking.GatewayError{Status: 400, Message: "invalid items"}, http.StatusBadRequest, "invalid items"},
		{"gateway auth error keeps status", &submitBooking.GatewayError{Status: 401, Message: "invalid access token"}, http.StatusUnauthorized, "invalid access token"},
		{"gateway server error keeps status", &submitBooking.GatewayError{Status: 503, Message: "service unavailable"}, http.StatusServiceUnavailable, "service unavailable"},
		{"gateway unreachable", &submitBooking.GatewayError{Message: "failed to create payment preference"}, http.StatusBadGateway, msgGatewayError},
		{"missing preference id", submitBooking.ErrMissingPreferenceID, http.StatusBadGateway, msgMissingPreferenceID},
		{"internal", submitBooking.ErrInternal, http.StatusInternalServerError, "erro interno do servidor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec, body := doRequest(t, uc, validBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestHandle_RejectedBeforeUseCase(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"clientName":`},
		{"unknown field", `{"title":"Manicure"}`},
		{"bad payment method", `{"paymentMethod":"boleto"}`},
		{"bad date", `{"date":"01/06/2024"}`},
		{"bad time", `{"date":"2024-06-01","time":"25:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec, _ := doRequest(t, uc, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_EmptyFieldsReachUseCase(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *submitBooking.Request) bool {
		return r.ClientName == "" && r.Date.IsZero() && r.Time.IsZero()
	})).Return(nil, submitBooking.ErrMissingContact)

	rec, body := doRequest(t, uc, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgMissingContact, body.Message)
}

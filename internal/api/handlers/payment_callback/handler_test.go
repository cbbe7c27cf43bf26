package payment_callback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	settlePayment "github.com/m04kA/SMC-SalonBooking/internal/usecase/settle_payment"
	"github.com/m04kA/SMC-SalonBooking/internal/web"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *settlePayment.Request) (*settlePayment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlePayment.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newHandler(t *testing.T, uc *mockUseCase) *Handler {
	t.Helper()
	tmpl, err := web.ParseTemplates()
	require.NoError(t, err)
	return NewHandler(uc, tmpl, nopLogger{})
}

func TestHandle_SuccessConfirms(t *testing.T) {
	uc := &mockUseCase{}
	id := uuid.New()
	uc.On("Execute", mock.Anything, &settlePayment.Request{
		Outcome:           settlePayment.OutcomeSuccess,
		ExternalReference: id.String(),
		PaymentID:         "123",
		CollectionStatus:  "approved",
		PreferenceID:      "pref-1",
	}).Return(&settlePayment.Response{
		ReservationID: id,
		Status:        domain.StatusConfirmed,
		Changed:       true,
		ServiceName:   "Manicure",
		Date:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:          "10:00",
	}, nil)

	target := "/success?collection_id=123&collection_status=approved&external_reference=" + id.String() + "&preference_id=pref-1"
	rec := httptest.NewRecorder()
	newHandler(t, uc).Handle(settlePayment.OutcomeSuccess)(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pagamento Confirmado!")
	assert.Contains(t, rec.Body.String(), "01/06/2024 às 10:00")
	uc.AssertExpectations(t)
}

func TestHandle_FailureReleases(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *settlePayment.Request) bool {
		return r.Outcome == settlePayment.OutcomeFailure && r.CollectionStatus == "null"
	})).Return(&settlePayment.Response{Status: domain.StatusReleased, Changed: true}, nil)

	rec := httptest.NewRecorder()
	newHandler(t, uc).Handle(settlePayment.OutcomeFailure)(rec,
		httptest.NewRequest(http.MethodGet, "/failure?status=null&external_reference="+uuid.NewString(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pagamento não Aprovado")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{"not found", settlePayment.ErrReservationNotFound, http.StatusNotFound, "Link Inválido"},
		{"bad reference", settlePayment.ErrInvalidReference, http.StatusNotFound, "Link Inválido"},
		{"payment of another reservation", settlePayment.ErrPaymentMismatch, http.StatusNotFound, "Link Inválido"},
		{"slot taken", settlePayment.ErrSlotUnavailable, http.StatusConflict, "Horário Indisponível"},
		{"payment lookup failed", settlePayment.ErrPaymentLookup, http.StatusBadGateway, "Erro ao Processar Pagamento"},
		{"internal", settlePayment.ErrInternal, http.StatusInternalServerError, "Erro ao Processar Pagamento"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			newHandler(t, uc).Handle(settlePayment.OutcomePending)(rec, httptest.NewRequest(http.MethodGet, "/pending", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantTitle)
		})
	}
}

package settle_payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	return m.Called(ctx, res).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Payment), args.Error(1)
}

func payment(status string, reference uuid.UUID) *mercadopago.Payment {
	return &mercadopago.Payment{ID: 123, Status: status, ExternalReference: reference.String()}
}

type countingPublisher struct {
	calls int
}

func (p *countingPublisher) Publish(ctx context.Context) { p.calls++ }

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingMetrics struct {
	statuses []string
}

func (m *recordingMetrics) IncReservation(status string) {
	m.statuses = append(m.statuses, status)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC)

func newHold(status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:            uuid.New(),
		Date:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		Status:        status,
		ServiceName:   "Manicure",
		PreferenceID:  "pref-1",
		HoldExpiresAt: testNow.Add(20 * time.Minute),
	}
}

func newUseCase(repo *mockRepo, gateway *mockGateway) (*UseCase, *countingPublisher, *recordingMetrics) {
	pub := &countingPublisher{}
	metrics := &recordingMetrics{}
	return NewUseCase(repo, gateway, pub, inlineTx{}, metrics, fixedTime{now: testNow}, nopLogger{}), pub, metrics
}

func TestExecute_ApprovedConfirms(t *testing.T) {
	repo := &mockRepo{}
	res := newHold(domain.StatusHeld)
	repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.Status == domain.StatusConfirmed && r.PaymentID != nil && *r.PaymentID == "123"
	})).Return(nil)
	gateway := &mockGateway{}
	gateway.On("GetPayment", mock.Anything, "123").Return(payment(mercadopago.PaymentStatusApproved, res.ID), nil)
	uc, pub, metrics := newUseCase(repo, gateway)

	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:           OutcomeSuccess,
		ExternalReference: res.ID.String(),
		PaymentID:         "123",
		CollectionStatus:  "approved",
		PreferenceID:      "pref-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, []string{"confirmed"}, metrics.statuses)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestExecute_FailureReleases(t *testing.T) {
	repo := &mockRepo{}
	res := newHold(domain.StatusHeld)
	repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
	gateway := &mockGateway{}
	uc, pub, _ := newUseCase(repo, gateway)

	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:           OutcomeFailure,
		ExternalReference: res.ID.String(),
		PaymentID:         "null",
		CollectionStatus:  "null",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReleased, resp.Status)
	assert.Equal(t, 1, pub.calls)
	gateway.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
}

func TestExecute_PendingKeepsHold(t *testing.T) {
	repo := &mockRepo{}
	res := newHold(domain.StatusHeld)
	repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
	gateway := &mockGateway{}
	gateway.On("GetPayment", mock.Anything, "123").Return(payment(mercadopago.PaymentStatusInProcess, res.ID), nil)
	uc, pub, _ := newUseCase(repo, gateway)

	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:           OutcomePending,
		ExternalReference: res.ID.String(),
		PaymentID:         "123",
		CollectionStatus:  "in_process",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHeld, resp.Status)
	assert.False(t, resp.Changed)
	assert.Equal(t, 0, pub.calls)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestExecute_RepeatedSuccessIsIdempotent(t *testing.T) {
	repo := &mockRepo{}
	res := newHold(domain.StatusConfirmed)
	repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
	gateway := &mockGateway{}
	gateway.On("GetPayment", mock.Anything, "123").Return(payment(mercadopago.PaymentStatusApproved, res.ID), nil)
	uc, pub, _ := newUseCase(repo, gateway)

	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:           OutcomeSuccess,
		ExternalReference: res.ID.String(),
		PaymentID:         "123",
	})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Equal(t, 0, pub.calls)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestExecute_SuccessWithoutPaymentKeepsHold(t *testing.T) {
	tests := []struct {
		name string
		req  func(id uuid.UUID) *Request
	}{
		{
			name: "bare reference",
			req: func(id uuid.UUID) *Request {
				return &Request{Outcome: OutcomeSuccess, ExternalReference: id.String()}
			},
		},
		{
			name: "approved status in query without payment",
			req: func(id uuid.UUID) *Request {
				return &Request{Outcome: OutcomeSuccess, ExternalReference: id.String(), CollectionStatus: "approved", PreferenceID: "pref-1"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			res := newHold(domain.StatusHeld)
			repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
			gateway := &mockGateway{}
			uc, pub, _ := newUseCase(repo, gateway)

			resp, err := uc.Execute(context.Background(), tt.req(res.ID))
			require.NoError(t, err)

			assert.Equal(t, domain.StatusHeld, resp.Status)
			assert.False(t, resp.Changed)
			assert.Nil(t, res.PaymentID)
			assert.Equal(t, 0, pub.calls)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
			gateway.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_QueryStatusIgnoredForVerifiedPayment(t *testing.T) {
	repo := &mockRepo{}
	res := newHold(domain.StatusHeld)
	repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
	gateway := &mockGateway{}
	gateway.On("GetPayment", mock.Anything, "123").Return(payment(mercadopago.PaymentStatusPending, res.ID), nil)
	uc, _, _ := newUseCase(repo, gateway)

	resp, err := uc.Execute(context.Background(), &Request{
		Outcome:           OutcomeSuccess,
		ExternalReference: res.ID.String(),
		PaymentID:         "123",
		CollectionStatus:  "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHeld, resp.Status)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(repo *mockRepo, gateway *mockGateway) *Request
		wantErr error
	}{
		{
			name: "unknown outcome",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				return &Request{Outcome: "done", ExternalReference: uuid.NewString()}
			},
			wantErr: ErrInvalidOutcome,
		},
		{
			name: "reference is not a reservation id",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				return &Request{Outcome: OutcomeSuccess, ExternalReference: "abc"}
			},
			wantErr: ErrInvalidReference,
		},
		{
			name: "reservation not found",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				id := uuid.New()
				repo.On("GetByID", mock.Anything, id).Return(nil, reservationRepo.ErrReservationNotFound)
				return &Request{Outcome: OutcomeSuccess, ExternalReference: id.String()}
			},
			wantErr: ErrReservationNotFound,
		},
		{
			name: "preference mismatch",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				res := newHold(domain.StatusHeld)
				repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
				return &Request{Outcome: OutcomeSuccess, ExternalReference: res.ID.String(), PreferenceID: "other"}
			},
			wantErr: ErrPreferenceMismatch,
		},
		{
			name: "release of confirmed reservation",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				res := newHold(domain.StatusConfirmed)
				repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
				return &Request{Outcome: OutcomeFailure, ExternalReference: res.ID.String()}
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "expired hold slot re-taken",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				res := newHold(domain.StatusExpired)
				repo.On("GetByID", mock.Anything, res.ID).Return(res, nil)
				repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(reservationRepo.ErrSlotTaken)
				gateway.On("GetPayment", mock.Anything, "123").Return(payment(mercadopago.PaymentStatusApproved, res.ID), nil)
				return &Request{Outcome: OutcomeSuccess, ExternalReference: res.ID.String(), PaymentID: "123"}
			},
			wantErr: ErrSlotUnavailable,
		},
		{
			name: "payment of another reservation",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				res := newHold(domain.StatusHeld)
				gateway.On("GetPayment", mock.Anything, "123").Return(payment(mercadopago.PaymentStatusApproved, uuid.New()), nil)
				return &Request{Outcome: OutcomeSuccess, ExternalReference: res.ID.String(), PaymentID: "123"}
			},
			wantErr: ErrPaymentMismatch,
		},
		{
			name: "payment unknown to gateway",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				gateway.On("GetPayment", mock.Anything, "999").Return(nil, mercadopago.ErrPaymentNotFound)
				return &Request{Outcome: OutcomeSuccess, ExternalReference: uuid.NewString(), PaymentID: "999"}
			},
			wantErr: ErrPaymentMismatch,
		},
		{
			name: "gateway unavailable",
			setup: func(repo *mockRepo, gateway *mockGateway) *Request {
				gateway.On("GetPayment", mock.Anything, "123").Return(nil, mercadopago.ErrGateway)
				return &Request{Outcome: OutcomeSuccess, ExternalReference: uuid.NewString(), PaymentID: "123"}
			},
			wantErr: ErrPaymentLookup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			gateway := &mockGateway{}
			req := tt.setup(repo, gateway)
			uc, pub, _ := newUseCase(repo, gateway)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, pub.calls)
		})
	}
}

func TestResolveAction(t *testing.T) {
	assert.Equal(t, actionKeep, resolveAction(OutcomeSuccess, ""))
	assert.Equal(t, actionConfirm, resolveAction(OutcomeSuccess, "Approved"))
	assert.Equal(t, actionRelease, resolveAction(OutcomeSuccess, "rejected"))
	assert.Equal(t, actionKeep, resolveAction(OutcomeSuccess, "in_process"))
	assert.Equal(t, actionRelease, resolveAction(OutcomeFailure, ""))
	assert.Equal(t, actionConfirm, resolveAction(OutcomeFailure, "approved"))
	assert.Equal(t, actionKeep, resolveAction(OutcomePending, "pending"))
	assert.Equal(t, actionConfirm, resolveAction(OutcomePending, "approved"))
}

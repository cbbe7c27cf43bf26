package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) BookedSlots(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TimeString), args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newUseCase(repo *mockRepo, now time.Time) *UseCase {
	policy := domain.BookingPolicy{AdvanceBookingDays: 30, MinBookingNoticeMinutes: 60}
	return NewUseCase(repo, domain.DefaultDailySlots(), policy, fixedTime{now: now}, nopLogger{})
}

func TestExecute_NoDateReturnsFullSet(t *testing.T) {
	repo := &mockRepo{}
	uc := newUseCase(repo, time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Len(t, resp.Available, 10)
	assert.Equal(t, resp.AllSlots, resp.Available)
	repo.AssertNotCalled(t, "BookedSlots", mock.Anything, mock.Anything)
}

func TestExecute_ExcludesBookedSlots(t *testing.T) {
	repo := &mockRepo{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.On("BookedSlots", mock.Anything, date).Return([]types.TimeString{"09:00"}, nil)
	uc := newUseCase(repo, time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: date})
	require.NoError(t, err)

	assert.Len(t, resp.Available, 9)
	assert.NotContains(t, resp.Available, types.TimeString("09:00"))
	assert.Equal(t, []types.TimeString{"09:00"}, resp.Booked)
	repo.AssertExpectations(t)
}

func TestExecute_TodayAppliesNotice(t *testing.T) {
	repo := &mockRepo{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.On("BookedSlots", mock.Anything, date).Return([]types.TimeString{"16:00"}, nil)
	uc := newUseCase(repo, time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: date})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"17:00", "18:00"}, resp.Available)
}

func TestExecute_DateErrors(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{name: "past", date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), wantErr: ErrInvalidDate},
		{name: "too far", date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), wantErr: ErrDateTooFarInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			uc := newUseCase(repo, now)

			_, err := uc.Execute(context.Background(), &Request{Date: tt.date})
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "BookedSlots", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &mockRepo{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.On("BookedSlots", mock.Anything, date).Return(nil, errors.New("db down"))
	uc := newUseCase(repo, time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{Date: date})
	assert.ErrorIs(t, err, ErrInternal)
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Len(t, c.Services(), 8)
	assert.Len(t, c.ByCategory(CategoryNails), 6)
	assert.Len(t, c.ByCategory(CategoryEyebrows), 2)
	assert.Equal(t, []Category{CategoryNails, CategoryEyebrows}, c.Categories())

	s, ok := c.Find("Gel na tips")
	require.True(t, ok)
	assert.Equal(t, "120.00", s.Price.StringFixed(2))

	_, ok = c.Find("gel na tips")
	assert.False(t, ok)
}

func TestNewCatalog_Rejects(t *testing.T) {
	_, err := NewCatalog(
		Service{Name: "A", Price: decimal.NewFromInt(1)},
		Service{Name: "A", Price: decimal.NewFromInt(2)},
	)
	assert.ErrorIs(t, err, ErrDuplicateService)

	_, err = NewCatalog(Service{Name: "B", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{in: "", want: PaymentCredit},
		{in: "credit", want: PaymentCredit},
		{in: "DEBIT", want: PaymentDebit},
		{in: " pix ", want: PaymentPix},
		{in: "cash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaymentMethod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

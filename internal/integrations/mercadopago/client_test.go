package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type recordingObserver struct {
	results []string
}

func (o *recordingObserver) ObserveGateway(result string, elapsed time.Duration) {
	o.results = append(o.results, result)
}

func testPreference() *Preference {
	return &Preference{
		Items: []Item{{Title: "Manicure", Quantity: 1, UnitPrice: 35, CurrencyID: CurrencyBRL}},
		BackURLs: BackURLs{
			Success: "https://salon.example.com/success",
			Failure: "https://salon.example.com/failure",
			Pending: "https://salon.example.com/pending",
		},
		AutoReturn:        AutoReturnApproved,
		ExternalReference: "res-1",
	}
}

func TestCreatePreference_Success(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"123-abc","init_point":"https://mp/checkout?pref_id=123-abc"}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(server.URL+"/", "secret", time.Second, nopLogger{}, observer)

	resp, err := client.CreatePreference(context.Background(), testPreference())
	require.NoError(t, err)

	assert.Equal(t, "123-abc", resp.ID)
	assert.Equal(t, "https://mp/checkout?pref_id=123-abc", resp.InitPoint)
	assert.Equal(t, "approved", got["auto_return"])
	assert.Equal(t, "res-1", got["external_reference"])
	backURLs := got["back_urls"].(map[string]interface{})
	assert.Equal(t, "https://salon.example.com/pending", backURLs["pending"])
	items := got["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Manicure", item["title"])
	assert.Equal(t, float64(35), item["unit_price"])
	assert.Equal(t, float64(1), item["quantity"])
	assert.Equal(t, []string{"ok"}, observer.results)
}

func TestCreatePreference_APIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"invalid items"}`, wantMessage: "invalid items"},
		{name: "message preferred", status: http.StatusUnauthorized, body: `{"message":"invalid access token","error":"unauthorized","status":401}`, wantMessage: "invalid access token"},
		{name: "empty body", status: http.StatusInternalServerError, body: ``, wantMessage: DefaultErrorMessage},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMessage: DefaultErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "secret", time.Second, nopLogger{}, nil)
			_, err := client.CreatePreference(context.Background(), testPreference())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.ErrorIs(t, err, ErrGateway)
		})
	}
}

func TestCreatePreference_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"init_point":"https://mp/checkout"}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(server.URL, "secret", time.Second, nopLogger{}, observer)

	_, err := client.CreatePreference(context.Background(), testPreference())
	assert.ErrorIs(t, err, ErrMissingPreferenceID)
	assert.Equal(t, "preference id not received", err.Error())
	assert.Equal(t, []string{"missing_id"}, observer.results)
}

func TestCreatePreference_NoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, nopLogger{}, nil)
	_, err := client.CreatePreference(context.Background(), testPreference())

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCreatePreference_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "secret", time.Second, nopLogger{}, nil)
	_, err := client.CreatePreference(context.Background(), testPreference())

	assert.ErrorIs(t, err, ErrGateway)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestCreatePreference_RejectsEmptyItems(t *testing.T) {
	client := NewClient("http://unused", "secret", time.Second, nopLogger{}, nil)

	_, err := client.CreatePreference(context.Background(), &Preference{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetPayment_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payments/987", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"id":987,"status":"approved","status_detail":"accredited","external_reference":"res-1","transaction_amount":35}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(server.URL, "secret", time.Second, nopLogger{}, observer)

	payment, err := client.GetPayment(context.Background(), "987")
	require.NoError(t, err)

	assert.Equal(t, int64(987), payment.ID)
	assert.Equal(t, PaymentStatusApproved, payment.Status)
	assert.Equal(t, "res-1", payment.ExternalReference)
	assert.Equal(t, float64(35), payment.TransactionAmount)
	assert.Equal(t, []string{"ok"}, observer.results)
}

func TestGetPayment_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Payment not found","status":404}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(server.URL, "secret", time.Second, nopLogger{}, observer)

	_, err := client.GetPayment(context.Background(), "404")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Equal(t, []string{"not_found"}, observer.results)
}

func TestGetPayment_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, nopLogger{}, nil)

	_, err := client.GetPayment(context.Background(), "987")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid access token", apiErr.Message)
}

func TestGetPayment_RejectsInvalidID(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, nopLogger{}, nil)

	for _, id := range []string{"", "  ", "1/../../users", "1?x=2"} {
		_, err := client.GetPayment(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidRequest, id)
	}
	assert.False(t, called)
}

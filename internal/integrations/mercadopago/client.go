package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	preferencesPath = "/checkout/preferences"
	paymentsPath    = "/v1/payments/"
)

// maxErrorBody ограничение на чтение тела ответа с ошибкой
const maxErrorBody = 64 << 10

// Client клиент Mercado Pago Checkout API
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         Logger
	observer    Observer
}

// NewClient создает новый экземпляр клиента Mercado Pago
func NewClient(baseURL, accessToken string, timeout time.Duration, log Logger, observer Observer) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:      log,
		observer: observer,
	}
}

// CreatePreference создает preference и возвращает его идентификатор.
// Повторных попыток нет: любой ответ не 2xx возвращается как *APIError,
// ответ 2xx без id как ErrMissingPreferenceID
func (c *Client) CreatePreference(ctx context.Context, pref *Preference) (*PreferenceResponse, error) {
	if pref == nil || len(pref.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}

	start := time.Now()
	resp, err := c.createPreference(ctx, pref)
	c.observe(err, time.Since(start))

	return resp, err
}

func (c *Client) createPreference(ctx context.Context, pref *Preference) (*PreferenceResponse, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode preference: %v", ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+preferencesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrGateway, err)
	}

	idempotencyKey := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	c.log.Info("CreatePreference: POST %s (external_reference=%s, idempotency_key=%s)",
		preferencesPath, pref.ExternalReference, idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(io.LimitReader(resp.Body, maxErrorBody)),
		}
		c.log.Warn("CreatePreference: gateway rejected preference (status=%d): %s", apiErr.Status, apiErr.Message)
		return nil, apiErr
	}

	var created PreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrGateway, err)
	}

	if created.ID == "" {
		c.log.Error("CreatePreference: response without preference id (status=%d)", resp.StatusCode)
		return nil, ErrMissingPreferenceID
	}

	c.log.Info("CreatePreference: preference created (id=%s)", created.ID)
	return &created, nil
}

// GetPayment читает платеж по id. Статус платежа берется только отсюда:
// query параметры back_url может подделать браузер
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" || strings.ContainsAny(paymentID, "/?#") {
		return nil, fmt.Errorf("%w: invalid payment id %q", ErrInvalidRequest, paymentID)
	}

	start := time.Now()
	payment, err := c.getPayment(ctx, paymentID)
	c.observe(err, time.Since(start))

	return payment, err
}

func (c *Client) getPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+paymentsPath+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.log.Warn("GetPayment: payment id=%s not found", paymentID)
		return nil, ErrPaymentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(io.LimitReader(resp.Body, maxErrorBody)),
		}
		c.log.Warn("GetPayment: gateway error for payment id=%s (status=%d): %s", paymentID, apiErr.Status, apiErr.Message)
		return nil, apiErr
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode payment: %v", ErrGateway, err)
	}

	c.log.Info("GetPayment: payment id=%s status=%s external_reference=%s",
		paymentID, payment.Status, payment.ExternalReference)
	return &payment, nil
}

// errorMessage достает текст ошибки из тела ответа: message, затем error
func errorMessage(body io.Reader) string {
	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return DefaultErrorMessage
	}

	switch {
	case errResp.Message != "":
		return errResp.Message
	case errResp.Error != "":
		return errResp.Error
	default:
		return DefaultErrorMessage
	}
}

func (c *Client) observe(err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}

	var apiErr *APIError
	result := "ok"
	switch {
	case err == nil:
	case errors.As(err, &apiErr):
		result = fmt.Sprintf("status_%d", apiErr.Status)
	case errors.Is(err, ErrMissingPreferenceID):
		result = "missing_id"
	case errors.Is(err, ErrPaymentNotFound):
		result = "not_found"
	default:
		result = "transport_error"
	}
	c.observer.ObserveGateway(result, elapsed)
}

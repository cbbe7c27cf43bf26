package mercadopago

// AutoReturnApproved возвращать покупателя на back_urls.success после одобрения оплаты
const AutoReturnApproved = "approved"

// CurrencyBRL валюта позиций заказа
const CurrencyBRL = "BRL"

// Типы оплаты Mercado Pago
const (
	PaymentTypeCreditCard   = "credit_card"
	PaymentTypeDebitCard    = "debit_card"
	PaymentTypeBankTransfer = "bank_transfer" // Pix
	PaymentTypeTicket       = "ticket"        // boleto
	PaymentTypeATM          = "atm"
	PaymentTypePrepaidCard  = "prepaid_card"
)

// Preference запрос на создание preference (POST /checkout/preferences)
type Preference struct {
	Items               []Item          `json:"items"`
	Payer               *Payer          `json:"payer,omitempty"`
	BackURLs            BackURLs        `json:"back_urls"`
	AutoReturn          string          `json:"auto_return,omitempty"`
	ExternalReference   string          `json:"external_reference,omitempty"`
	PaymentMethods      *PaymentMethods `json:"payment_methods,omitempty"`
	StatementDescriptor string          `json:"statement_descriptor,omitempty"`
}

// Item позиция заказа
type Item struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	CurrencyID  string  `json:"currency_id,omitempty"`
}

type Payer struct {
	Name  string `json:"name,omitempty"`
	Phone *Phone `json:"phone,omitempty"`
}

type Phone struct {
	AreaCode string `json:"area_code,omitempty"`
	Number   string `json:"number"`
}

// BackURLs адреса возврата покупателя после оплаты
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PaymentMethods struct {
	ExcludedPaymentTypes []PaymentType `json:"excluded_payment_types"`
	Installments         int           `json:"installments,omitempty"`
}

type PaymentType struct {
	ID string `json:"id"`
}

// PreferenceResponse ответ шлюза на создание preference
type PreferenceResponse struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
	ExternalReference string `json:"external_reference"`
	DateCreated       string `json:"date_created"`
}

// Статусы платежа (GET /v1/payments/{id})
const (
	PaymentStatusApproved   = "approved"
	PaymentStatusPending    = "pending"
	PaymentStatusInProcess  = "in_process"
	PaymentStatusRejected   = "rejected"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusRefunded   = "refunded"
	PaymentStatusChargeback = "charged_back"
)

// Payment платеж, как его видит шлюз
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	PaymentTypeID     string  `json:"payment_type_id"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
}

// ErrorResponse тело ответа шлюза с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

package payment_callback

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	settlePayment "github.com/m04kA/SMC-SalonBooking/internal/usecase/settle_payment"
)

// ResultPage данные страницы результата оплаты
type ResultPage struct {
	Kind        string // success, failure, pending; CSS класс заголовка
	Title       string
	Message     string
	ServiceName string
	When        string
}

// ToUseCaseRequest собирает запрос из query параметров back_url
func ToUseCaseRequest(outcome settlePayment.Outcome, r *http.Request) *settlePayment.Request {
	q := r.URL.Query()

	// Mercado Pago передает статус и в collection_status, и в status
	status := q.Get("collection_status")
	if status == "" {
		status = q.Get("status")
	}
	paymentID := q.Get("payment_id")
	if paymentID == "" {
		paymentID = q.Get("collection_id")
	}

	return &settlePayment.Request{
		Outcome:           outcome,
		ExternalReference: q.Get("external_reference"),
		PaymentID:         paymentID,
		CollectionStatus:  status,
		PreferenceID:      q.Get("preference_id"),
	}
}

// FromUseCaseResponse страница по итоговому статусу резервации
func FromUseCaseResponse(resp *settlePayment.Response) ResultPage {
	page := ResultPage{
		ServiceName: resp.ServiceName,
		When:        resp.Date.Format("02/01/2006") + " às " + resp.Time.String(),
	}

	switch resp.Status {
	case domain.StatusConfirmed:
		page.Kind = "success"
		page.Title = "Pagamento Confirmado!"
		page.Message = "Seu agendamento foi realizado com sucesso"
	case domain.StatusHeld:
		page.Kind = "pending"
		page.Title = "Pagamento em Processamento"
		page.Message = "Seu horário está reservado enquanto aguardamos a confirmação do pagamento"
	default:
		page.Kind = "failure"
		page.Title = "Pagamento não Aprovado"
		page.Message = "O horário foi liberado. Você pode tentar agendar novamente"
	}
	return page
}

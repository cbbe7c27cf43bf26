package submit_booking

import (
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
)

// excludedPaymentTypes типы оплаты, скрытые в checkout для выбранного способа
var excludedPaymentTypes = map[domain.PaymentMethod][]string{
	domain.PaymentCredit: {
		mercadopago.PaymentTypeDebitCard,
		mercadopago.PaymentTypeBankTransfer,
		mercadopago.PaymentTypeTicket,
		mercadopago.PaymentTypeATM,
	},
	domain.PaymentDebit: {
		mercadopago.PaymentTypeCreditCard,
		mercadopago.PaymentTypeBankTransfer,
		mercadopago.PaymentTypeTicket,
		mercadopago.PaymentTypeATM,
	},
	domain.PaymentPix: {
		mercadopago.PaymentTypeCreditCard,
		mercadopago.PaymentTypeDebitCard,
		mercadopago.PaymentTypeTicket,
		mercadopago.PaymentTypeATM,
		mercadopago.PaymentTypePrepaidCard,
	},
}

// buildPreference собирает preference из запроса бронирования: одна позиция,
// back_urls сайта и auto_return=approved
func buildPreference(req domain.BookingRequest, reservationID uuid.UUID, opts Options) *mercadopago.Preference {
	site := strings.TrimRight(opts.SiteURL, "/")

	excluded := make([]mercadopago.PaymentType, 0, len(excludedPaymentTypes[req.PaymentMethod]))
	for _, id := range excludedPaymentTypes[req.PaymentMethod] {
		excluded = append(excluded, mercadopago.PaymentType{ID: id})
	}

	return &mercadopago.Preference{
		Items: []mercadopago.Item{
			{
				ID:          reservationID.String(),
				Title:       req.Title(),
				Description: req.Description(),
				Quantity:    1,
				UnitPrice:   req.Price.InexactFloat64(),
				CurrencyID:  mercadopago.CurrencyBRL,
			},
		},
		Payer: &mercadopago.Payer{
			Name:  req.ClientName,
			Phone: &mercadopago.Phone{Number: req.ClientPhone},
		},
		BackURLs: mercadopago.BackURLs{
			Success: site + "/success",
			Failure: site + "/failure",
			Pending: site + "/pending",
		},
		AutoReturn:          mercadopago.AutoReturnApproved,
		ExternalReference:   reservationID.String(),
		PaymentMethods:      &mercadopago.PaymentMethods{ExcludedPaymentTypes: excluded},
		StatementDescriptor: opts.StatementDescriptor,
	}
}

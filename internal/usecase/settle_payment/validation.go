package settle_payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mercadopago"
)

func validateRequest(req *Request) (uuid.UUID, error) {
	switch req.Outcome {
	case OutcomeSuccess, OutcomeFailure, OutcomePending:
	default:
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidOutcome, req.Outcome)
	}

	id, err := uuid.Parse(strings.TrimSpace(req.ExternalReference))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidReference, req.ExternalReference)
	}
	return id, nil
}

// action что сделать с резервацией для исхода и collection_status
type action int

const (
	actionKeep action = iota
	actionConfirm
	actionRelease
)

// resolveAction выбирает действие по исходу и статусу платежа, подтвержденному шлюзом.
// Пустой paymentStatus означает, что платеж не передан: подтверждать нечего
func resolveAction(outcome Outcome, paymentStatus string) action {
	switch strings.ToLower(strings.TrimSpace(paymentStatus)) {
	case mercadopago.PaymentStatusApproved:
		return actionConfirm
	case mercadopago.PaymentStatusRejected, mercadopago.PaymentStatusCancelled:
		return actionRelease
	}

	// Покупатель мог закрыть checkout до оплаты: платежа нет
	if outcome == OutcomeFailure {
		return actionRelease
	}
	return actionKeep
}

// File: services/payment/stripe.go
package payment

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"playpark/models"
)

// ErrNoPaymentReference indicates neither a confirmation nor a payment intent
// id was supplied.
var ErrNoPaymentReference = errors.New("no payment confirmation or intent id given")

// ConfirmationResolver turns the caller's payment input into the settled
// confirmation the booking engine consumes. The engine itself never talks to
// a gateway.
type ConfirmationResolver interface {
	Resolve(input Input) (models.PaymentConfirmation, error)
}

// Input is either a ready confirmation (from an upstream collaborator) or a
// Stripe PaymentIntent id to look up.
type Input struct {
	Confirmation    *models.PaymentConfirmation `json:"confirmation,omitempty"`
	PaymentIntentID string                      `json:"paymentIntentId,omitempty"`
}

// StripeResolver resolves PaymentIntent ids against Stripe.
type StripeResolver struct{}

// Resolve prefers a supplied confirmation; otherwise it reads the
// PaymentIntent status and maps it onto the booking payment states.
func (StripeResolver) Resolve(input Input) (models.PaymentConfirmation, error) {
	if input.Confirmation != nil {
		return *input.Confirmation, nil
	}
	if input.PaymentIntentID == "" {
		return models.PaymentConfirmation{}, ErrNoPaymentReference
	}

	intent, err := paymentintent.Get(input.PaymentIntentID, nil)
	if err != nil {
		return models.PaymentConfirmation{}, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	confirmation := models.PaymentConfirmation{TransactionRef: intent.ID}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		confirmation.Status = models.PaymentCompleted
	case stripe.PaymentIntentStatusCanceled:
		confirmation.Status = models.PaymentFailed
	default:
		confirmation.Status = models.PaymentPending
	}
	return confirmation, nil
}

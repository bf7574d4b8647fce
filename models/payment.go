package models

// PaymentConfirmation is the post-payment signal the booking engine consumes.
// The engine never talks to a gateway itself; it receives the settled status
// and an opaque transaction reference from the payment collaborator.
type PaymentConfirmation struct {
	Status         string `json:"status"` // pending | completed | failed
	TransactionRef string `json:"transactionRef,omitempty"`
}

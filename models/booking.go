package models

import "time"

// Payment status of a booking, supplied by the payment collaborator.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Lifecycle status of a booking.
const (
	BookingActive    = "active"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking represents one customer's reservation against exactly one session.
// Customer fields are a snapshot taken at booking time; later profile edits do
// not touch them.
type Booking struct {
	ID            string   `bson:"id" json:"id"`
	QRToken       string   `bson:"qr_token" json:"qrToken"`                         // sole check-in credential
	SessionID     string   `bson:"session_id,omitempty" json:"sessionId,omitempty"` // empty only for legacy free-form bookings
	BranchID      string   `bson:"branch_id" json:"branchId"`
	Activity      Activity `bson:"activity" json:"activity"`
	Date          string   `bson:"date" json:"date"`
	Time          string   `bson:"time" json:"time"`
	CustomerID    string   `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	CustomerName  string   `bson:"customer_name" json:"customerName"`
	CustomerEmail string   `bson:"customer_email,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone string   `bson:"customer_phone,omitempty" json:"customerPhone,omitempty"`
	Seats         int      `bson:"seats" json:"seats"`
	TotalAmount   float64  `bson:"total_amount" json:"totalAmount"` // unitPrice * seats, fixed at creation
	PaymentStatus string   `bson:"payment_status" json:"paymentStatus"`
	PaymentRef    string   `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	Status        string   `bson:"status" json:"status"`

	IsVerified bool       `bson:"is_verified" json:"isVerified"`
	VerifiedAt *time.Time `bson:"verified_at,omitempty" json:"verifiedAt,omitempty"`
	VerifiedBy string     `bson:"verified_by,omitempty" json:"verifiedBy,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancelledBy string     `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
}

// CustomerSnapshot carries the customer contact details captured at booking time.
type CustomerSnapshot struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BookingSummary is the check-in view of a booking, shown to the verifier.
type BookingSummary struct {
	BookingID    string   `json:"bookingId"`
	CustomerName string   `json:"customerName"`
	Activity     Activity `json:"activity"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Seats        int      `json:"seats"`
}

// Summary projects the booking into its check-in view.
func (b *Booking) Summary() BookingSummary {
	return BookingSummary{
		BookingID:    b.ID,
		CustomerName: b.CustomerName,
		Activity:     b.Activity,
		Date:         b.Date,
		Time:         b.Time,
		Seats:        b.Seats,
	}
}

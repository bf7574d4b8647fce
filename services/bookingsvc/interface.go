// File: services/bookingsvc/interface.go
package bookingsvc

import (
	"context"
	"errors"

	"playpark/models"
)

var (
	// ErrSessionInactive indicates the session exists but is hidden from
	// booking.
	ErrSessionInactive = errors.New("session is not active")
	// ErrInvalidSeats indicates a non-positive seat count.
	ErrInvalidSeats = errors.New("seats must be at least 1")
)

// CreateInput carries everything needed to create a booking. Payment arrives
// as a settled confirmation from the payment collaborator; the engine never
// initiates payment.
type CreateInput struct {
	SessionID string
	Customer  models.CustomerSnapshot
	Seats     int
	UnitPrice float64
	Payment   models.PaymentConfirmation
}

// SeatDrift describes a session whose booked counter disagrees with the live
// booking sum.
type SeatDrift struct {
	SessionID   string `json:"sessionId"`
	BookedSeats int    `json:"bookedSeats"`
	ActualSum   int    `json:"actualSum"`
	Repaired    bool   `json:"repaired"`
}

// BookingService orchestrates the booking lifecycle over the seat-accounting
// operations: create reserves seats and persists the booking as one logical
// step, cancel releases them exactly once.
type BookingService interface {
	Create(ctx context.Context, actor models.Actor, input CreateInput) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)

	// Reconcile compares each session's booked counter against the sum of
	// seats on its non-cancelled bookings and reports (optionally repairs)
	// any drift.
	Reconcile(ctx context.Context, repair bool) ([]SeatDrift, error)
}

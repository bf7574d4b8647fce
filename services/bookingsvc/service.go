// File: services/bookingsvc/service.go
package bookingsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "playpark/database/repository/booking"
	sessionRepo "playpark/database/repository/session"
	"playpark/models"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Sessions sessionRepo.SessionRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// Create validates the request, reserves seats through the capacity manager,
// and persists the booking with a fresh QR token. The reservation and the
// insert form one logical step: if the insert fails the seats are released
// again, so no reservation is ever left behind without a booking record.
func (s *DefaultBookingService) Create(ctx context.Context, actor models.Actor, input CreateInput) (*models.Booking, error) {
	if input.Seats < 1 {
		return nil, ErrInvalidSeats
	}

	session, err := s.Sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, ErrSessionInactive
	}

	counts, err := s.Sessions.ReserveSeats(ctx, session.ID, input.Seats)
	if err != nil {
		return nil, err
	}

	paymentStatus := input.Payment.Status
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		QRToken:       NewQRToken(),
		SessionID:     session.ID,
		BranchID:      session.BranchID,
		Activity:      session.Activity,
		Date:          session.Date,
		Time:          session.Time,
		CustomerID:    input.Customer.ID,
		CustomerName:  input.Customer.Name,
		CustomerEmail: input.Customer.Email,
		CustomerPhone: input.Customer.Phone,
		Seats:         input.Seats,
		TotalAmount:   input.UnitPrice * float64(input.Seats),
		PaymentStatus: paymentStatus,
		PaymentRef:    input.Payment.TransactionRef,
		Status:        models.BookingActive,
		CreatedAt:     time.Now(),
	}

	if err := s.Bookings.Insert(ctx, booking); err != nil {
		// Roll back the reservation so the seats are not stranded.
		if _, relErr := s.Sessions.ReleaseSeats(ctx, session.ID, input.Seats); relErr != nil {
			s.Logger.Error("failed to release seats after booking insert failure",
				zap.String("sessionId", session.ID),
				zap.Int("seats", input.Seats),
				zap.Error(relErr),
			)
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("sessionId", session.ID),
		zap.Int("seats", input.Seats),
		zap.Int("availableSeats", counts.AvailableSeats),
		zap.String("createdBy", actor.ID),
	)
	return booking, nil
}

// Cancel transitions an active booking to cancelled and releases its seats.
// The conditional cancel in the repository guarantees the release runs at most
// once per booking, which is what keeps the seat-sum invariant intact.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.Cancel(ctx, bookingID, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}

	if booking.SessionID != "" {
		if _, err := s.Sessions.ReleaseSeats(ctx, booking.SessionID, booking.Seats); err != nil {
			// The booking is cancelled but the seats were not returned; the
			// reconciliation pass will pick this up.
			s.Logger.Error("seat release failed after cancellation",
				zap.String("bookingId", booking.ID),
				zap.String("sessionId", booking.SessionID),
				zap.Error(err),
			)
			return booking, fmt.Errorf("booking cancelled but seat release failed: %w", err)
		}
	}

	s.Logger.Info("booking cancelled",
		zap.String("bookingId", booking.ID),
		zap.String("cancelledBy", actor.ID),
	)
	return booking, nil
}

// GetByID retrieves a booking.
func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Bookings.GetByID(ctx, bookingID)
}

// NewQRToken generates the opaque check-in credential for a booking.
func NewQRToken() string {
	return "QR-" + uuid.New().String()
}

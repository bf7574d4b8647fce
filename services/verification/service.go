// File: services/verification/service.go
package verification

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingRepo "playpark/database/repository/booking"
	"playpark/models"
)

// VerificationService is the check-in state machine: Unverified → Verified,
// terminal. Verification marks attendance only; it never touches seat
// accounting.
type VerificationService interface {
	Verify(ctx context.Context, rawCredential string, actor models.Actor) (*models.VerificationResult, error)
}

// DefaultVerificationService implements VerificationService.
type DefaultVerificationService struct {
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// Verify resolves the credential to a booking and marks it attended exactly
// once. A repeat scan is a successful outcome carrying the original
// verification metadata, never an error: the venue staff sees "already checked
// in at T by M" instead of a double count or an unexplained failure.
func (s *DefaultVerificationService) Verify(ctx context.Context, rawCredential string, actor models.Actor) (*models.VerificationResult, error) {
	token, err := NormalizeCredential(rawCredential)
	if err != nil {
		return nil, err
	}

	booking, already, err := s.Bookings.MarkVerified(ctx, token, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}

	result := &models.VerificationResult{
		Booking:    booking.Summary(),
		VerifiedBy: booking.VerifiedBy,
	}
	if booking.VerifiedAt != nil {
		result.VerifiedAt = *booking.VerifiedAt
	}

	if already {
		result.Outcome = models.OutcomeAlreadyVerified
		s.Logger.Info("repeat check-in",
			zap.String("bookingId", booking.ID),
			zap.String("scannedBy", actor.ID),
			zap.String("originallyVerifiedBy", booking.VerifiedBy),
		)
		return result, nil
	}

	result.Outcome = models.OutcomeVerified
	s.Logger.Info("booking verified",
		zap.String("bookingId", booking.ID),
		zap.String("verifiedBy", actor.ID),
	)
	return result, nil
}

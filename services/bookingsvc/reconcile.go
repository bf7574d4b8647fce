// File: services/bookingsvc/reconcile.go
package bookingsvc

import (
	"context"

	"go.uber.org/zap"
)

// Reconcile walks every session and compares its booked counter against the
// authoritative sum of seats on non-cancelled bookings. A mismatch means some
// release or reservation path was missed; with repair set, the counter is
// corrected to the booking sum.
func (s *DefaultBookingService) Reconcile(ctx context.Context, repair bool) ([]SeatDrift, error) {
	sessions, err := s.Sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []SeatDrift
	for i := range sessions {
		session := &sessions[i]
		sum, err := s.Bookings.SumActiveSeats(ctx, session.ID)
		if err != nil {
			return drifts, err
		}
		if sum == session.BookedSeats {
			continue
		}

		drift := SeatDrift{
			SessionID:   session.ID,
			BookedSeats: session.BookedSeats,
			ActualSum:   sum,
		}
		s.Logger.Warn("seat counter drift detected",
			zap.String("sessionId", session.ID),
			zap.Int("bookedSeats", session.BookedSeats),
			zap.Int("actualSum", sum),
		)

		if repair {
			if _, err := s.Sessions.CorrectBookedSeats(ctx, session.ID, sum); err != nil {
				return append(drifts, drift), err
			}
			drift.Repaired = true
		}
		drifts = append(drifts, drift)
	}
	return drifts, nil
}

// File: services/sessionsvc/service.go
package sessionsvc

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	bookingRepo "playpark/database/repository/booking"
	branchRepo "playpark/database/repository/branch"
	sessionRepo "playpark/database/repository/session"
	"playpark/models"
)

// DefaultSessionService implements SessionService.
type DefaultSessionService struct {
	Sessions sessionRepo.SessionRepository
	Bookings bookingRepo.BookingRepository
	Branches branchRepo.BranchRepository
	Logger   *zap.Logger
}

// Availability lists active sessions sorted by (date, time). The sort is
// applied here as well as in the query so ordering holds for any repository
// implementation.
func (s *DefaultSessionService) Availability(ctx context.Context, branchID string, activity models.Activity, from, to string) ([]models.SessionSummary, error) {
	if !activity.Valid() {
		return nil, fmt.Errorf("unknown activity %q", activity)
	}

	sessions, err := s.Sessions.ListForAvailability(ctx, branchID, activity, from, to)
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].Time < sessions[j].Time
	})

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, sessions[i].Summary())
	}
	return summaries, nil
}

// GetSession returns a session by id.
func (s *DefaultSessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.Sessions.GetByID(ctx, id)
}

// CreateSession creates a single session for a branch.
func (s *DefaultSessionService) CreateSession(ctx context.Context, actor models.Actor, session *models.Session) (*models.Session, error) {
	if !session.Activity.Valid() {
		return nil, fmt.Errorf("unknown activity %q", session.Activity)
	}
	if session.TotalSeats <= 0 {
		return nil, fmt.Errorf("%w: total seats must be positive", ErrInvalidTemplate)
	}

	branch, err := s.Branches.GetByID(ctx, session.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.Allows(session.Activity) {
		return nil, ErrActivityNotAllowed
	}

	session.BookedSeats = 0
	session.AvailableSeats = session.TotalSeats
	session.IsActive = true
	session.CreatedBy = actor.ID
	if err := s.Sessions.Insert(ctx, session); err != nil {
		return nil, err
	}

	s.Logger.Info("session created",
		zap.String("sessionId", session.ID),
		zap.String("branchId", session.BranchID),
		zap.String("date", session.Date),
		zap.String("createdBy", actor.ID),
	)
	return session, nil
}

// UpdateSession applies metadata edits and an optional capacity change. The
// capacity change is delegated to SetCapacity, which rejects totals below the
// booked count.
func (s *DefaultSessionService) UpdateSession(ctx context.Context, actor models.Actor, id string, meta models.SessionMetadataUpdate, newTotal *int) (*models.Session, error) {
	if newTotal != nil {
		if _, err := s.Sessions.SetCapacity(ctx, id, *newTotal); err != nil {
			return nil, err
		}
	}
	if err := s.Sessions.UpdateMetadata(ctx, id, meta); err != nil {
		return nil, err
	}

	updated, err := s.Sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("session updated",
		zap.String("sessionId", id),
		zap.String("updatedBy", actor.ID),
	)
	return updated, nil
}

// DeleteSession removes a session; the repository rejects the delete while
// seats are booked.
func (s *DefaultSessionService) DeleteSession(ctx context.Context, actor models.Actor, id string) error {
	if err := s.Sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("session deleted",
		zap.String("sessionId", id),
		zap.String("deletedBy", actor.ID),
	)
	return nil
}

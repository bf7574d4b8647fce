// File: services/sessionsvc/generate.go
package sessionsvc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"playpark/models"
)

const dateLayout = "2006-01-02"

// EnsureSessionsForDates materializes the configured templates for each date
// that has no session yet for (branch, date, activity). The skip check uses
// the natural key (branch, date, activity), not individual time slots, so a
// partially seeded date is left alone rather than having templates interleaved
// into it. Generation is always an explicit admin call; no read path triggers
// it implicitly.
func (s *DefaultSessionService) EnsureSessionsForDates(ctx context.Context, actor models.Actor, branchID string, dates []string, activity models.Activity, templates []models.SessionTemplate) (int, error) {
	if !activity.Valid() {
		return 0, fmt.Errorf("unknown activity %q", activity)
	}
	if len(templates) == 0 {
		return 0, fmt.Errorf("%w: no templates given", ErrInvalidTemplate)
	}
	for _, t := range templates {
		if t.Time == "" || t.TotalSeats <= 0 {
			return 0, fmt.Errorf("%w: time and positive totalSeats required", ErrInvalidTemplate)
		}
	}

	branch, err := s.Branches.GetByID(ctx, branchID)
	if err != nil {
		return 0, err
	}
	if !branch.Allows(activity) {
		return 0, ErrActivityNotAllowed
	}

	created := 0
	for _, date := range dates {
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			return created, fmt.Errorf("invalid date %q: %w", date, err)
		}
		if branch.ClosedOnMondays && day.Weekday() == time.Monday {
			continue
		}

		exists, err := s.Sessions.HasSessionForDate(ctx, branchID, date, activity)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		sessions := make([]models.Session, 0, len(templates))
		for _, t := range templates {
			sessions = append(sessions, models.Session{
				BranchID:   branchID,
				Date:       date,
				Time:       t.Time,
				Activity:   activity,
				Label:      t.Label,
				Type:       t.Type,
				AgeGroup:   t.AgeGroup,
				TotalSeats: t.TotalSeats,
				Price:      t.Price,
				IsActive:   true,
				CreatedBy:  actor.ID,
			})
		}
		n, err := s.Sessions.InsertMany(ctx, sessions)
		created += n
		if err != nil {
			return created, err
		}
	}

	s.Logger.Info("sessions generated",
		zap.String("branchId", branchID),
		zap.String("activity", string(activity)),
		zap.Int("created", created),
		zap.String("createdBy", actor.ID),
	)
	return created, nil
}

// ReplaceSessionsForDate deletes every session for (branch, date) and inserts
// the given specs. Destructive: unless force is set, it refuses while any
// non-cancelled booking references the date, because deleting those sessions
// would orphan paid, unverified bookings.
func (s *DefaultSessionService) ReplaceSessionsForDate(ctx context.Context, actor models.Actor, branchID, date string, specs []models.SessionSpec, force bool) (int, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	branch, err := s.Branches.GetByID(ctx, branchID)
	if err != nil {
		return 0, err
	}
	for _, spec := range specs {
		if !spec.Activity.Valid() {
			return 0, fmt.Errorf("%w: unknown activity %q", ErrInvalidTemplate, spec.Activity)
		}
		if !branch.Allows(spec.Activity) {
			return 0, ErrActivityNotAllowed
		}
		if spec.Time == "" || spec.TotalSeats <= 0 {
			return 0, fmt.Errorf("%w: time and positive totalSeats required", ErrInvalidTemplate)
		}
	}

	if !force {
		active, err := s.Bookings.CountActiveForBranchDate(ctx, branchID, date)
		if err != nil {
			return 0, err
		}
		if active > 0 {
			return 0, ErrSessionsHaveBookings
		}
	}

	deleted, err := s.Sessions.DeleteByBranchDate(ctx, branchID, date)
	if err != nil {
		return 0, err
	}

	sessions := make([]models.Session, 0, len(specs))
	for _, spec := range specs {
		sessions = append(sessions, models.Session{
			BranchID:   branchID,
			Date:       date,
			Time:       spec.Time,
			Activity:   spec.Activity,
			Label:      spec.Label,
			Type:       spec.Type,
			AgeGroup:   spec.AgeGroup,
			TotalSeats: spec.TotalSeats,
			Price:      spec.Price,
			IsActive:   true,
			CreatedBy:  actor.ID,
		})
	}
	created, err := s.Sessions.InsertMany(ctx, sessions)
	if err != nil {
		return created, err
	}

	s.Logger.Info("sessions replaced",
		zap.String("branchId", branchID),
		zap.String("date", date),
		zap.Int64("deleted", deleted),
		zap.Int("created", created),
		zap.Bool("force", force),
		zap.String("replacedBy", actor.ID),
	)
	return created, nil
}

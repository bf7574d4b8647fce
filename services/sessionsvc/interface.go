// File: services/sessionsvc/interface.go
package sessionsvc

import (
	"context"
	"errors"

	"playpark/models"
)

var (
	// ErrSessionsHaveBookings blocks a bulk replace while non-cancelled
	// bookings still reference the date's sessions.
	ErrSessionsHaveBookings = errors.New("sessions for this date have outstanding bookings")
	// ErrActivityNotAllowed indicates the branch is not configured to run the
	// requested activity.
	ErrActivityNotAllowed = errors.New("branch does not offer this activity")
	// ErrInvalidTemplate indicates a generation template or spec failed
	// validation.
	ErrInvalidTemplate = errors.New("invalid session template")
)

// SessionService owns session discovery and administration. Seat counters are
// never mutated here directly; capacity edits delegate to the repository's
// SetCapacity operation.
type SessionService interface {
	// Availability lists active sessions for a branch/activity ordered by
	// (date, time) ascending.
	Availability(ctx context.Context, branchID string, activity models.Activity, from, to string) ([]models.SessionSummary, error)

	// GetSession returns a session by id.
	GetSession(ctx context.Context, id string) (*models.Session, error)

	// CreateSession creates a single session.
	CreateSession(ctx context.Context, actor models.Actor, session *models.Session) (*models.Session, error)

	// UpdateSession applies metadata edits and, when newTotal is non-nil, a
	// capacity change through the seat-accounting path.
	UpdateSession(ctx context.Context, actor models.Actor, id string, meta models.SessionMetadataUpdate, newTotal *int) (*models.Session, error)

	// DeleteSession removes a session with zero booked seats.
	DeleteSession(ctx context.Context, actor models.Actor, id string) error

	// EnsureSessionsForDates materializes the templates for every date that has
	// no session yet for (branch, date, activity). Returns the number of
	// sessions created.
	EnsureSessionsForDates(ctx context.Context, actor models.Actor, branchID string, dates []string, activity models.Activity, templates []models.SessionTemplate) (int, error)

	// ReplaceSessionsForDate deletes all sessions for (branch, date) and
	// inserts the specs. Refuses while non-cancelled bookings reference the
	// date unless force is set.
	ReplaceSessionsForDate(ctx context.Context, actor models.Actor, branchID, date string, specs []models.SessionSpec, force bool) (int, error)
}

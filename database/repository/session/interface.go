// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"
	"errors"

	"playpark/database"
	"playpark/models"
	"playpark/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrSessionNotFound indicates no session matched the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCapacityExceeded indicates a reservation asked for more seats than
	// remained at commit time. No state was changed.
	ErrCapacityExceeded = errors.New("not enough seats available")
	// ErrInvalidCapacity indicates an attempt to shrink total seats below the
	// currently booked count.
	ErrInvalidCapacity = errors.New("total seats cannot be less than booked seats")
	// ErrSessionHasBookings indicates a delete was attempted while seats are
	// still booked.
	ErrSessionHasBookings = errors.New("session has outstanding bookings")
)

// SessionRepository is the session store plus the seat-accounting authority.
// The seat operations are the only code path that mutates booked/available
// counters, and each one commits its capacity check and its write as a single
// conditional update against the session document.
type SessionRepository interface {
	Insert(ctx context.Context, session *models.Session) error
	InsertMany(ctx context.Context, sessions []models.Session) (int, error)
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListForAvailability(ctx context.Context, branchID string, activity models.Activity, from, to string) ([]models.Session, error)
	ListByBranchDate(ctx context.Context, branchID, date string) ([]models.Session, error)
	ListAll(ctx context.Context) ([]models.Session, error)
	HasSessionForDate(ctx context.Context, branchID, date string, activity models.Activity) (bool, error)
	UpdateMetadata(ctx context.Context, id string, meta models.SessionMetadataUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByBranchDate(ctx context.Context, branchID, date string) (int64, error)

	// Seat operations (the capacity invariant manager's storage half).
	ReserveSeats(ctx context.Context, id string, seats int) (*models.SeatCounts, error)
	ReleaseSeats(ctx context.Context, id string, seats int) (*models.SeatCounts, error)
	SetCapacity(ctx context.Context, id string, newTotal int) (*models.SeatCounts, error)
	CorrectBookedSeats(ctx context.Context, id string, booked int) (*models.SeatCounts, error)
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a new MongoDB SessionRepository.
func NewMongoSessionRepo() SessionRepository {
	repo := &mongoSessionRepo{
		coll: database.DB().Collection("sessions"),
	}
	if err := repo.EnsureSessionIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("session indexes: %v", err)
	}
	return repo
}

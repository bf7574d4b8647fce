// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"playpark/database"
	"playpark/models"
	"playpark/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrBookingNotFound indicates no booking matched the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrTokenNotFound indicates no booking carries the presented QR token.
	ErrTokenNotFound = errors.New("invalid code")
	// ErrAlreadyCancelled indicates the booking is not active anymore.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// BookingRepository persists bookings and owns the two conditional lifecycle
// transitions: cancel-if-active and verify-if-not-verified. Both fold their
// precondition into the update filter so racing callers are serialized by the
// storage engine.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByToken(ctx context.Context, token string) (*models.Booking, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.Booking, error)

	// MarkVerified flips is_verified exactly once. The `already` flag is true
	// when the booking was verified before this call; the returned booking then
	// carries the original verification metadata.
	MarkVerified(ctx context.Context, token, verifiedBy string, at time.Time) (booking *models.Booking, already bool, err error)

	// Cancel transitions an active booking to cancelled. Returns
	// ErrAlreadyCancelled when the booking exists but is not active.
	Cancel(ctx context.Context, id, cancelledBy string, at time.Time) (*models.Booking, error)

	// SumActiveSeats returns the seat sum over non-cancelled bookings for a
	// session. Used by the reconciliation pass.
	SumActiveSeats(ctx context.Context, sessionID string) (int, error)

	// CountActiveForBranchDate counts non-cancelled session-backed bookings for
	// a branch/date. Guards the destructive bulk replace.
	CountActiveForBranchDate(ctx context.Context, branchID, date string) (int64, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	repo := &mongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
	if err := repo.EnsureBookingIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("booking indexes: %v", err)
	}
	return repo
}

// File: database/repository/session/seats.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"playpark/models"
)

// Seat mutations. Each operation folds its capacity check into the update
// filter (or pipeline) so the check and the write commit as one step against
// the session document. Concurrent reservations against the same session are
// serialized by the storage engine, never by application-level read-then-write.

// ReserveSeats books `seats` against the session if that many remain.
// A request for exactly the remaining seats succeeds (boundary inclusive).
// Returns ErrCapacityExceeded when the session exists but has fewer seats left.
func (r *mongoSessionRepo) ReserveSeats(ctx context.Context, id string, seats int) (*models.SeatCounts, error) {
	if seats <= 0 {
		return nil, fmt.Errorf("seats must be positive, got %d", seats)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":              id,
		"available_seats": bson.M{"$gte": seats},
	}
	update := bson.M{
		"$inc": bson.M{
			"booked_seats":    seats,
			"available_seats": -seats,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing session from one without enough seats.
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
		if cerr != nil {
			return nil, fmt.Errorf("error reserving seats on %s: %w", id, cerr)
		}
		if count == 0 {
			return nil, ErrSessionNotFound
		}
		return nil, ErrCapacityExceeded
	}
	if err != nil {
		return nil, fmt.Errorf("error reserving seats on %s: %w", id, err)
	}
	return seatCounts(&session), nil
}

// ReleaseSeats returns `seats` to the session, clamping booked seats at zero.
// The release itself is not deduplicated; the booking lifecycle guarantees it
// is called at most once per cancellation.
func (r *mongoSessionRepo) ReleaseSeats(ctx context.Context, id string, seats int) (*models.SeatCounts, error) {
	if seats <= 0 {
		return nil, fmt.Errorf("seats must be positive, got %d", seats)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Two-stage pipeline: clamp booked first, then recompute available from
	// the updated value.
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"booked_seats": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$booked_seats", seats}}}},
		}},
		bson.M{"$set": bson.M{
			"available_seats": bson.M{"$subtract": bson.A{"$total_seats", "$booked_seats"}},
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, pipeline, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error releasing seats on %s: %w", id, err)
	}
	return seatCounts(&session), nil
}

// SetCapacity changes total seats, rejecting totals below the booked count.
func (r *mongoSessionRepo) SetCapacity(ctx context.Context, id string, newTotal int) (*models.SeatCounts, error) {
	if newTotal < 0 {
		return nil, ErrInvalidCapacity
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":           id,
		"booked_seats": bson.M{"$lte": newTotal},
	}
	pipeline := bson.A{
		bson.M{"$set": bson.M{"total_seats": newTotal}},
		bson.M{"$set": bson.M{
			"available_seats": bson.M{"$subtract": bson.A{"$total_seats", "$booked_seats"}},
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
		if cerr != nil {
			return nil, fmt.Errorf("error setting capacity on %s: %w", id, cerr)
		}
		if count == 0 {
			return nil, ErrSessionNotFound
		}
		return nil, ErrInvalidCapacity
	}
	if err != nil {
		return nil, fmt.Errorf("error setting capacity on %s: %w", id, err)
	}
	return seatCounts(&session), nil
}

// CorrectBookedSeats overwrites the booked counter. Only the reconciliation
// pass calls this, after computing the authoritative sum from live bookings.
func (r *mongoSessionRepo) CorrectBookedSeats(ctx context.Context, id string, booked int) (*models.SeatCounts, error) {
	if booked < 0 {
		booked = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$set": bson.M{"booked_seats": booked}},
		bson.M{"$set": bson.M{
			"available_seats": bson.M{"$subtract": bson.A{"$total_seats", "$booked_seats"}},
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, pipeline, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error correcting booked seats on %s: %w", id, err)
	}
	return seatCounts(&session), nil
}

func seatCounts(s *models.Session) *models.SeatCounts {
	return &models.SeatCounts{
		TotalSeats:     s.TotalSeats,
		BookedSeats:    s.BookedSeats,
		AvailableSeats: s.AvailableSeats,
	}
}

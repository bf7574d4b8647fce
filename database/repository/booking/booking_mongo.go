// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"playpark/models"
)

// Insert persists a new booking document.
func (r *mongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// Delete removes a booking document. Only the create path uses this, to roll
// back an insert that could not be completed.
func (r *mongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	return nil
}

// GetByID retrieves a booking by its id.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByToken retrieves a booking by its QR token.
func (r *mongoBookingRepo) GetByToken(ctx context.Context, token string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"qr_token": token}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking by token: %w", err)
	}
	return &booking, nil
}

// ListBySession returns all bookings referencing a session.
func (r *mongoBookingRepo) ListBySession(ctx context.Context, sessionID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for session %s: %w", sessionID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// Cancel transitions an active booking to cancelled. The status precondition
// lives in the filter, so a second cancel (or a racing one) misses the update
// and reports ErrAlreadyCancelled instead of releasing seats twice.
func (r *mongoBookingRepo) Cancel(ctx context.Context, id, cancelledBy string, at time.Time) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BookingActive}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingCancelled,
		"cancelled_at": at,
		"cancelled_by": cancelledBy,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
		if cerr != nil {
			return nil, fmt.Errorf("error cancelling booking %s: %w", id, cerr)
		}
		if count == 0 {
			return nil, ErrBookingNotFound
		}
		return nil, ErrAlreadyCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("error cancelling booking %s: %w", id, err)
	}
	return &booking, nil
}

// SumActiveSeats aggregates the seat sum over non-cancelled bookings for a
// session.
func (r *mongoBookingRepo) SumActiveSeats(ctx context.Context, sessionID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"session_id": sessionID,
			"status":     bson.M{"$ne": models.BookingCancelled},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"seats": bson.M{"$sum": "$seats"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error summing seats for session %s: %w", sessionID, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Seats int `bson:"seats"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error decoding seat sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Seats, nil
}

// CountActiveForBranchDate counts non-cancelled session-backed bookings for a
// branch on a date.
func (r *mongoBookingRepo) CountActiveForBranchDate(ctx context.Context, branchID, date string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"branch_id":  branchID,
		"date":       date,
		"status":     bson.M{"$ne": models.BookingCancelled},
		"session_id": bson.M{"$ne": ""},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting bookings for %s/%s: %w", branchID, date, err)
	}
	return count, nil
}

// File: database/repository/session/session_mongo.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"playpark/models"
)

// Insert persists a single session document.
func (r *mongoSessionRepo) Insert(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	session.AvailableSeats = session.TotalSeats - session.BookedSeats

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// InsertMany persists a batch of sessions and returns how many were inserted.
func (r *mongoSessionRepo) InsertMany(ctx context.Context, sessions []models.Session) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(sessions) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(sessions))
	now := time.Now()
	for i, s := range sessions {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.AvailableSeats = s.TotalSeats - s.BookedSeats
		docs[i] = s
	}

	res, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return 0, fmt.Errorf("error creating sessions: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// GetByID retrieves a session by its id.
func (r *mongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching session %s: %w", id, err)
	}
	return &session, nil
}

// ListForAvailability returns active sessions for a branch and activity within
// the inclusive [from, to] date range, sorted by (date, time) ascending. An
// empty range returns all upcoming dates for the branch.
func (r *mongoSessionRepo) ListForAvailability(ctx context.Context, branchID string, activity models.Activity, from, to string) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"branch_id": branchID,
		"activity":  activity,
		"is_active": true,
	}
	dateRange := bson.M{}
	if from != "" {
		dateRange["$gte"] = from
	}
	if to != "" {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying availability: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding availability: %w", err)
	}
	return sessions, nil
}

// ListByBranchDate returns every session (active or not) for a branch on a date.
func (r *mongoSessionRepo) ListByBranchDate(ctx context.Context, branchID, date string) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"branch_id": branchID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding sessions: %w", err)
	}
	return sessions, nil
}

// ListAll returns every session. Used by the reconciliation pass.
func (r *mongoSessionRepo) ListAll(ctx context.Context) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding sessions: %w", err)
	}
	return sessions, nil
}

// HasSessionForDate reports whether any session exists for the natural key
// (branch, date, activity). The generator uses this to skip already-seeded
// dates regardless of which time slots a prior seeding produced.
func (r *mongoSessionRepo) HasSessionForDate(ctx context.Context, branchID, date string, activity models.Activity) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"branch_id": branchID,
		"date":      date,
		"activity":  activity,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking sessions for date: %w", err)
	}
	return count > 0, nil
}

// UpdateMetadata applies display-field edits. Seat counters are never touched
// here; capacity changes go through SetCapacity.
func (r *mongoSessionRepo) UpdateMetadata(ctx context.Context, id string, meta models.SessionMetadataUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if meta.Label != nil {
		set["label"] = *meta.Label
	}
	if meta.Type != nil {
		set["type"] = *meta.Type
	}
	if meta.AgeGroup != nil {
		set["age_group"] = *meta.AgeGroup
	}
	if meta.Time != nil {
		set["time"] = *meta.Time
	}
	if meta.Price != nil {
		set["price"] = *meta.Price
	}
	if meta.IsActive != nil {
		set["is_active"] = *meta.IsActive
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating session %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session only when no seats are booked. The guard is part of
// the delete filter so a racing reservation cannot slip in between a check and
// the removal.
func (r *mongoSessionRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "booked_seats": 0})
	if err != nil {
		return fmt.Errorf("error deleting session %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("error deleting session %s: %w", id, err)
		}
		if count == 0 {
			return ErrSessionNotFound
		}
		return ErrSessionHasBookings
	}
	return nil
}

// DeleteByBranchDate removes every session for a branch on a date and returns
// how many were deleted. Callers are responsible for the outstanding-booking
// guard; see the session service's replace operation.
func (r *mongoSessionRepo) DeleteByBranchDate(ctx context.Context, branchID, date string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"branch_id": branchID, "date": date})
	if err != nil {
		return 0, fmt.Errorf("error deleting sessions for %s/%s: %w", branchID, date, err)
	}
	return res.DeletedCount, nil
}

// File: database/repository/booking/verify.go
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

// MarkVerified performs the check-in transition. The is_verified:false
// precondition is part of the update filter, so when two scans of the same
// token race, exactly one flips the flag; the loser falls through to the
// re-fetch and reports the original verification metadata.
func (r *mongoBookingRepo) MarkVerified(ctx context.Context, token, verifiedBy string, at time.Time) (*models.Booking, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"qr_token": token, "is_verified": false}
	update := bson.M{"$set": bson.M{
		"is_verified": true,
		"verified_at": at,
		"verified_by": verifiedBy,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, fmt.Errorf("error verifying token: %w", err)
	}

	// Either the token is unknown or the booking was verified earlier.
	existing, err := r.GetByToken(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if !existing.IsVerified {
		// The update missed even though the booking is unverified; surface it
		// rather than guessing.
		return nil, false, fmt.Errorf("verification did not commit for booking %s", existing.ID)
	}
	return existing, true, nil
}

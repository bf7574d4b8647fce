// File: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureBookingIndexes creates the indexes the booking queries rely on.
// The qr_token unique index is what makes the token a usable credential.
func (r *mongoBookingRepo) EnsureBookingIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "qr_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// File: database/repository/session/indexes.go
package sessionRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureSessionIndexes creates the indexes the session queries rely on.
func (r *mongoSessionRepo) EnsureSessionIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Availability queries filter by branch/activity and range on date.
			Keys: bson.D{
				{Key: "branch_id", Value: 1},
				{Key: "activity", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "date", Value: 1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// File: database/repository/branch/branch_mongo.go
package branchRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"playpark/models"
)

// GetByID retrieves a branch by its id.
func (r *mongoBranchRepo) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var branch models.Branch
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&branch)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching branch %s: %w", id, err)
	}
	return &branch, nil
}

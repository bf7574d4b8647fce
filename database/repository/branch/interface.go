// File: database/repository/branch/interface.go
package branchRepo

import (
	"context"
	"errors"

	"playpark/database"
	"playpark/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrBranchNotFound indicates no branch matched the given id.
var ErrBranchNotFound = errors.New("branch not found")

// BranchRepository provides the read side of branch configuration the session
// generator consults (permitted activities, weekday exclusions). Branch
// administration lives outside this service.
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*models.Branch, error)
}

type mongoBranchRepo struct {
	coll *mongo.Collection
}

// NewMongoBranchRepo constructs a new MongoDB BranchRepository.
func NewMongoBranchRepo() BranchRepository {
	return &mongoBranchRepo{
		coll: database.DB().Collection("branches"),
	}
}

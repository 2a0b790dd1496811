package repositories

import (
	"context"

	"github.com/fitflix/backend/internal/models"
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	// Insert persists a new user and returns the id assigned by the store.
	Insert(ctx context.Context, user models.User) (int64, error)
}

// Package users declares the repository contract for account records.
package users

import (
	"context"

	"github.com/karlov/authgate/internal/models"
)

// Repository owns User rows and their hashed credentials.
type Repository interface {
	// Create inserts a new user and returns it with the generated ID.
	// A duplicate email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail looks a user up by lower-cased email.
	// Returns common.ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID looks a user up by ID. Returns common.ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePasswordHash overwrites the user's stored credential.
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

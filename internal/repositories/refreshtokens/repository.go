// Package refreshtokens declares the repository contract for persisted
// refresh tokens used in the rotation flow.
package refreshtokens

import (
	"context"
	"time"

	"github.com/karlov/authgate/internal/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of
	// now+validity.
	Create(ctx context.Context, userID, token string, validity time.Duration) error

	// Find looks up a refresh token by its token string and returns the
	// persisted row, revoked or not. Returns common.ErrNotFound when absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke flips the revoked flag with a conditional update. Zero rows
	// matched yields common.ErrNotFound: the token is absent or was already
	// revoked by a concurrent rotation.
	Revoke(ctx context.Context, token string) error
}

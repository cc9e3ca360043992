// Package resettokens declares the repository contract for single-use
// password-reset tokens.
package resettokens

import (
	"context"
	"time"

	"github.com/karlov/authgate/internal/models"
)

// Repository owns password-reset-token rows keyed by the opaque token string.
// The contract mirrors verificationtokens.Repository; the two families live
// in separate tables so their lifecycles never interfere.
type Repository interface {
	Create(ctx context.Context, userID, token string, validity time.Duration) (*models.PasswordResetToken, error)

	FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)

	// FindActiveByUser returns an unused, unexpired token for the user so
	// repeated forgot-password calls reuse it instead of minting duplicates.
	FindActiveByUser(ctx context.Context, userID string) (*models.PasswordResetToken, error)

	// Consume flips the used flag with a conditional update; zero rows
	// matched yields common.ErrNotFound.
	Consume(ctx context.Context, token string) error
}

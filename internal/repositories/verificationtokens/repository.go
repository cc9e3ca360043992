// Package verificationtokens declares the repository contract for
// single-use email-verification tokens.
package verificationtokens

import (
	"context"
	"time"

	"github.com/karlov/authgate/internal/models"
)

// Repository owns verification-token rows keyed by the opaque token string.
type Repository interface {
	// Create inserts a new token for userID expiring at now+validity.
	Create(ctx context.Context, userID, token string, validity time.Duration) (*models.VerificationToken, error)

	// FindByToken looks a token up by its opaque string.
	// Returns common.ErrNotFound when absent.
	FindByToken(ctx context.Context, token string) (*models.VerificationToken, error)

	// FindActiveByUser returns an unused, unexpired token for the user, the
	// most recently created one if several exist. Returns common.ErrNotFound
	// when none is active.
	FindActiveByUser(ctx context.Context, userID string) (*models.VerificationToken, error)

	// Consume flips the used flag with a conditional update. It returns
	// common.ErrNotFound when no unused row matched, i.e. the token is
	// absent or a concurrent consumer already won.
	Consume(ctx context.Context, token string) error
}

// Package notify delivers verification and password-reset instructions to
// end users. The orchestrating service only sees the Notifier interface;
// delivery mechanics live behind it.
package notify

import "context"

// Notifier sends token-bearing messages to an email address.
type Notifier interface {
	// NotifyVerification sends an email-verification message carrying the
	// opaque token.
	NotifyVerification(ctx context.Context, email, token string) error

	// NotifyPasswordReset sends a password-reset message carrying the
	// opaque token.
	NotifyPasswordReset(ctx context.Context, email, token string) error
}

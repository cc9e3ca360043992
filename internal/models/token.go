package models

import "time"

// VerificationToken is a single-use email-verification token. Used is
// monotonic: once true it never goes back.
type VerificationToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Active reports whether the token is still consumable at instant now.
func (t *VerificationToken) Active(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// PasswordResetToken is a single-use password-reset token. Same lifecycle as
// VerificationToken, scoped to the reset flow.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Active reports whether the token is still consumable at instant now.
func (t *PasswordResetToken) Active(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// RefreshToken is a persisted session token. The Token column holds the full
// signed string; Revoked is monotonic and flips exactly when a successor row
// is created (rotation).
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Live reports whether the token can still start a rotation at instant now.
func (t *RefreshToken) Live(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

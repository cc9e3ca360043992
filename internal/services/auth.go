// Package services contains the business logic of authgate. This file
// implements AuthService, which coordinates the credential store, the token
// repositories, the hasher, and the issuer for the register / login /
// verify / reset / refresh flows.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/karlov/authgate/internal/auth"
	"github.com/karlov/authgate/internal/common"
	"github.com/karlov/authgate/internal/config"
	"github.com/karlov/authgate/internal/dbx"
	"github.com/karlov/authgate/internal/models"
	"github.com/karlov/authgate/internal/notify"
	"github.com/karlov/authgate/internal/repositories/repomanager"
)

// opaqueTokenBytes is the entropy of verification and reset tokens.
// 32 bytes render as 64 hex characters.
const opaqueTokenBytes = 32

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput is the validated payload for Register.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.Role
}

// AuthService orchestrates the token lifecycle state machines. Each token
// family moves CREATED -> USED (or EXPIRED); refresh tokens additionally move
// to REVOKED atomically with the creation of their successor.
type AuthService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	hasher          auth.PasswordHasher
	issuer          *auth.Issuer
	notifier        notify.Notifier
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewAuthService constructs an AuthService from injected collaborators and
// the configured token lifetimes.
func NewAuthService(
	db *sql.DB,
	repos repomanager.RepositoryManager,
	hasher auth.PasswordHasher,
	issuer *auth.Issuer,
	notifier notify.Notifier,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		db:              db,
		repos:           repos,
		hasher:          hasher,
		issuer:          issuer,
		notifier:        notifier,
		verificationTTL: cfg.Auth.VerificationTokenTTL,
		resetTTL:        cfg.Auth.ResetTokenTTL,
	}
}

// Register creates a user with a hashed credential, mints a verification
// token, and sends the verification email. The token is never returned to
// the caller. A duplicate email yields a Conflict error and creates nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	email := normalizeEmail(in.Email)

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return common.E(common.KindInvalidArgument, fmt.Sprintf("unknown role %q", role))
	}

	usersRepo := s.repos.Users(s.db)

	if _, err := usersRepo.FindByEmail(ctx, email); err == nil {
		return common.ErrConflict
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := usersRepo.Create(ctx, &models.User{
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		// Pre-check raced with another registration; the unique index wins.
		if errors.Is(err, common.ErrAlreadyExists) {
			return common.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}

	token, err := common.MakeRandHexString(opaqueTokenBytes)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if _, err := s.repos.VerificationTokens(s.db).Create(ctx, user.ID, token, s.verificationTTL); err != nil {
		return fmt.Errorf("create verification token: %w", err)
	}

	if err := s.notifier.NotifyVerification(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// Login verifies the credentials and, on success, issues a fresh token pair
// and persists the refresh token. An absent user and a wrong password yield
// the same Unauthorized error so the response does not reveal which it was.
// Login is deliberately not gated on verification status.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repos.Users(s.db).FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}
	return s.generateTokenPair(ctx, user, s.db)
}

// VerifyEmail consumes a verification token exactly once. A second call with
// the same token deterministically fails AlreadyUsed.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	vt, err := s.repos.VerificationTokens(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("lookup verification token: %w", err)
	}
	if vt.Used {
		return common.ErrAlreadyUsed
	}
	if !time.Now().Before(vt.ExpiresAt) {
		return common.ErrExpired
	}

	if err := s.repos.VerificationTokens(s.db).Consume(ctx, token); err != nil {
		// The conditional update lost: a concurrent call consumed it first.
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrAlreadyUsed
		}
		return fmt.Errorf("consume verification token: %w", err)
	}
	return nil
}

// ResendVerification re-sends an active verification token unchanged, or
// mints a new one when none is active. Unknown emails fail NotFound.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := s.findOrCreateVerificationToken(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := s.notifier.NotifyVerification(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// ForgotPassword never reveals whether the email exists: both branches
// return the same nil acknowledgement. When the user exists it reuses an
// active reset token or mints a fresh one and sends the reset email; when
// absent it touches nothing.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	resetRepo := s.repos.ResetTokens(s.db)

	var token string
	if rt, err := resetRepo.FindActiveByUser(ctx, user.ID); err == nil {
		token = rt.Token
	} else if errors.Is(err, common.ErrNotFound) {
		token, err = common.MakeRandHexString(opaqueTokenBytes)
		if err != nil {
			return fmt.Errorf("generate reset token: %w", err)
		}
		if _, err := resetRepo.Create(ctx, user.ID, token, s.resetTTL); err != nil {
			return fmt.Errorf("create reset token: %w", err)
		}
	} else {
		return fmt.Errorf("lookup reset token: %w", err)
	}

	if err := s.notifier.NotifyPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and overwrites the user's credential.
// The consumption and the credential update commit as one transaction.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	rt, err := s.repos.ResetTokens(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if rt.Used {
		return common.ErrAlreadyUsed
	}
	if !time.Now().Before(rt.ExpiresAt) {
		return common.ErrExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.ResetTokens(tx).Consume(ctx, token); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrAlreadyUsed
			}
			return fmt.Errorf("consume reset token: %w", err)
		}
		if err := s.repos.Users(tx).UpdatePasswordHash(ctx, rt.UserID, hash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return nil
	})
}

// Refresh rotates a refresh token: the old row is revoked and a successor is
// inserted in the same transaction, and a fresh pair is issued. The persisted
// row is authoritative over the signature's embedded expiry, since revocation
// is a persistence-layer fact the signature cannot encode. A failed refresh
// means the caller must re-authenticate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if _, err := s.issuer.VerifyRefresh(refreshToken); err != nil {
		return nil, common.ErrInvalidToken
	}

	row, err := s.repos.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if !row.Live(time.Now()) {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repos.Users(s.db).FindByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Revoke(ctx, refreshToken); err != nil {
			// A concurrent refresh won the conditional update.
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("revoke refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// --- helpers below ---

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, db dbx.DBTX) (*TokenPair, error) {
	access, err := s.issuer.SignAccess(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.issuer.SignRefresh(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.repos.RefreshTokens(db).Create(ctx, user.ID, refresh, s.issuer.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) findOrCreateVerificationToken(ctx context.Context, userID string) (string, error) {
	repo := s.repos.VerificationTokens(s.db)

	if vt, err := repo.FindActiveByUser(ctx, userID); err == nil {
		return vt.Token, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", fmt.Errorf("lookup verification token: %w", err)
	}

	token, err := common.MakeRandHexString(opaqueTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	if _, err := repo.Create(ctx, userID, token, s.verificationTTL); err != nil {
		return "", fmt.Errorf("create verification token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package verificationtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/karlov/authgate/internal/common"
	"github.com/karlov/authgate/internal/dbx"
	"github.com/karlov/authgate/internal/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, token string, validity time.Duration) (*models.VerificationToken, error) {
	query := `
		INSERT INTO verification_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	vt := &models.VerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(validity),
	}
	if err := r.db.QueryRowContext(ctx, query, userID, token, vt.ExpiresAt).
		Scan(&vt.ID, &vt.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vt, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM verification_tokens
		WHERE token = $1
	`
	return scanToken(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) FindActiveByUser(ctx context.Context, userID string) (*models.VerificationToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM verification_tokens
		WHERE user_id = $1 AND NOT used AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanToken(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Consume(ctx context.Context, token string) error {
	query := `
		UPDATE verification_tokens SET used = true
		WHERE token = $1 AND NOT used
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanToken(row *sql.Row) (*models.VerificationToken, error) {
	vt := &models.VerificationToken{}
	err := row.Scan(&vt.ID, &vt.UserID, &vt.Token, &vt.ExpiresAt, &vt.Used, &vt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vt, nil
}

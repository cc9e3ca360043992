package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/karlov/authgate/internal/common"
	"github.com/karlov/authgate/internal/models"
)

func newTestIssuer() *Issuer {
	return NewIssuer([]byte("access-secret"), []byte("refresh-secret"), 15*time.Minute, 720*time.Hour)
}

func TestSignRefreshAndVerify_Success(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()

	tok, err := i.SignRefresh("user-123", models.RoleUser)
	if err != nil {
		t.Fatalf("SignRefresh error: %v", err)
	}

	claims, err := i.VerifyRefresh(tok)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "user-123")
	}
	if claims.Role != models.RoleUser {
		t.Fatalf("role mismatch: got %q", claims.Role)
	}
}

func TestVerifyRefresh_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()

	// Signed with the access secret; must not verify as a refresh token.
	tok, err := i.SignAccess("u1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("SignAccess error: %v", err)
	}

	if _, err := i.VerifyRefresh(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRefresh_Expired(t *testing.T) {
	t.Parallel()

	i := NewIssuer([]byte("a"), []byte("r"), time.Minute, -1*time.Second)

	tok, err := i.SignRefresh("u1", models.RoleUser)
	if err != nil {
		t.Fatalf("SignRefresh error: %v", err)
	}

	if _, err := i.VerifyRefresh(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRefresh_Malformed(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()
	if _, err := i.VerifyRefresh("not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestVerifyRefresh_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestIssuer().SignRefresh("u2", models.RoleUser)
	if err != nil {
		t.Fatalf("SignRefresh error: %v", err)
	}

	other := NewIssuer([]byte("access-secret"), []byte("different"), time.Minute, time.Hour)
	if _, err := other.VerifyRefresh(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

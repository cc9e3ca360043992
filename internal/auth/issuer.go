package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/karlov/authgate/internal/common"
	"github.com/karlov/authgate/internal/models"
)

// Claims carries the registered claims plus the user's role.
type Claims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// Issuer signs and verifies access and refresh tokens. The two token kinds
// use distinct secrets, so a token signed as one kind never verifies as the
// other. Pure computation, no I/O.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer constructs an Issuer with the given secrets and lifetimes.
func NewIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// SignAccess mints a short-lived access token for the user.
func (i *Issuer) SignAccess(userID string, role models.Role) (string, error) {
	return sign(userID, role, i.accessSecret, i.accessTTL)
}

// SignRefresh mints a long-lived refresh token for the user. The returned
// string is also the persisted row key for the rotation state.
func (i *Issuer) SignRefresh(userID string, role models.Role) (string, error) {
	return sign(userID, role, i.refreshSecret, i.refreshTTL)
}

// RefreshTTL exposes the refresh lifetime so the persisted row can share it.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// VerifyRefresh checks the refresh token's signature and embedded expiry and
// returns its claims. A bad signature, wrong secret, or expired token yields
// common.ErrInvalidToken. Revocation is a persistence-layer fact the
// signature cannot encode; the caller checks it against the stored row.
func (i *Issuer) VerifyRefresh(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func sign(userID string, role models.Role, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		// The jti keeps two tokens minted for the same user inside one
		// second distinct; the refresh token string is a unique row key.
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})
	return token.SignedString(secret)
}

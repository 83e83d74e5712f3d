// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

const invalidToken = "Token is not valid"

// UserLookup resolves the identity a token refers to.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Claims carries the user identifier next to the registered claims.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, users UserLookup) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, users: users, now: time.Now}
}

// WithClock replaces the time source; used in tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue signs a token for userID.
func (m *TokenManager) Issue(userID uuid.UUID) (string, error) {
	if len(m.secret) == 0 {
		return "", apperr.Configuration("JWT_SECRET is not defined")
	}

	now := m.now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry, then resolves the user. A token for a
// user that no longer exists is rejected.
func (m *TokenManager) Verify(ctx context.Context, tokenStr string) (*models.User, error) {
	if len(m.secret) == 0 {
		return nil, apperr.Configuration("JWT_SECRET is not defined")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperr.AuthWrap(invalidToken, err)
	}
	if !token.Valid {
		return nil, apperr.Auth(invalidToken)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.AuthWrap(invalidToken, err)
	}

	user, err := m.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.AuthWrap(invalidToken, err)
		}
		return nil, err
	}
	return user, nil
}

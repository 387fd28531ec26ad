package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/teamtrack/teamtrack/shared/models"
)

// TokenClaims is the JWT payload: the principal triple plus the
// registered expiry claim.
type TokenClaims struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited credentials.
// It is stateless; everything is a pure function over the secret.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service with the given signing
// secret and token lifetime.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

// IssueToken produces a signed HS256 token encoding the principal
func (s *TokenService) IssueToken(userID, tenantID uuid.UUID, role models.UserRole) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Expiry returns the configured token lifetime
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// VerifyToken checks signature and expiry and returns the principal.
// It never returns an error to distinguish failure modes: any invalid
// token yields a nil principal so callers respond with 401 uniformly.
func (s *TokenService) VerifyToken(tokenString string) *models.Principal {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil
	}

	return &models.Principal{
		UserID:   userID,
		TenantID: tenantID,
		Role:     models.UserRole(claims.Role),
	}
}

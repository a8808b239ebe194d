package auth

import (
	"context"
	"fmt"
	"time"

	"hms-be/internal/domain"
	"hms-be/pkg/errors"
	"hms-be/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the JWT claim set carried by session tokens. Perms holds
// permission codes embedded at sign-in; accounts without persisted role rows
// (bootstrap/dev accounts) are authorized from this set alone.
type SessionClaims struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Perms []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// Service validates credential-based session tokens
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(secret string, logger *logger.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		logger: logger,
	}
}

// ValidateSessionToken parses and validates a session JWT and returns the session
func (s *Service) ValidateSessionToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	if len(s.secret) == 0 {
		s.logger.Error("SESSION_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("Session validation not configured")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("Failed to parse session token")
		return nil, errors.NewAuthenticationError("Invalid or expired session token")
	}
	if !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid or expired session token")
	}

	if claims.Subject == "" {
		return nil, errors.NewAuthenticationError("Session token has no subject")
	}

	session := &domain.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Permissions: claims.Perms,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}

// IssueSessionToken mints a session JWT. Used by tests and the development
// seed tooling; production tokens come from the external sign-in flow.
func (s *Service) IssueSessionToken(userID, email string, perms []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email: email,
		Perms: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

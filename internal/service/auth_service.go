package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/pkg/config"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// AuthService validates the operator tokens that protect the manual
// run-trigger endpoint. There are no user accounts, only a shared HS256
// secret issued to the ops tooling.
type AuthService struct {
	cfg config.AuthConfig
}

// NewAuthService constructs the auth service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// ValidateToken parses and validates a trigger token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.TriggerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TriggerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.TriggerClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// GenerateToken issues a trigger token for ops tooling.
func (s *AuthService) GenerateToken(subject string) (string, error) {
	issuedAt := time.Now().UTC()
	expiry := s.cfg.Expiration
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	claims := &models.TriggerClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign trigger token: %w", err)
	}
	return signed, nil
}

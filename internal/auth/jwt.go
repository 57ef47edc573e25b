package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"childcare-tasks.com/childcare-tasks/internal/constants"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
)

type Claims struct {
	Role constants.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(actor Actor) (string, error) {
	now := m.now()
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns the actor it was issued for.
func (m *TokenManager) Parse(tokenString string) (Actor, error) {
	if tokenString == "" {
		return Actor{}, apperrors.ErrMissingToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return Actor{}, apperrors.ErrInvalidToken
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return Actor{}, apperrors.ErrInvalidToken
	}

	return Actor{ID: claims.Subject, Role: claims.Role}, nil
}

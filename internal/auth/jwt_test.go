package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"childcare-tasks.com/childcare-tasks/internal/constants"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue(Actor{ID: "user-1", Role: constants.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	actor, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if actor.ID != "user-1" || !actor.IsAdmin() {
		t.Errorf("unexpected actor: %+v", actor)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	valid, _ := m.Issue(Actor{ID: "user-1", Role: constants.RoleUser})

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue(Actor{ID: "user-1", Role: constants.RoleUser})

	other, _ := NewTokenManager("other", time.Hour).Issue(Actor{ID: "user-1", Role: constants.RoleUser})

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "ROOT",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", apperrors.ErrMissingToken},
		{"garbage", "not-a-token", apperrors.ErrInvalidToken},
		{"expired", stale, apperrors.ErrInvalidToken},
		{"wrong secret", other, apperrors.ErrInvalidToken},
		{"unknown role", badRole, apperrors.ErrInvalidToken},
		{"tampered", valid + "x", apperrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

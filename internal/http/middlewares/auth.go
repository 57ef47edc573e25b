package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"childcare-tasks.com/childcare-tasks/internal/auth"
	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
)

const actorKey = "actor"

// Authenticate decodes the bearer token and stores the caller on the context.
func Authenticate(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return apperrors.ErrMissingToken
			}

			actor, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				return err
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := ActorFrom(c)
			if err != nil {
				return err
			}
			if !actor.IsAdmin() {
				return apperrors.Forbidden("admin role required")
			}
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (auth.Actor, error) {
	actor, ok := c.Get(actorKey).(auth.Actor)
	if !ok {
		return auth.Actor{}, apperrors.ErrMissingToken
	}
	return actor, nil
}

package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	apperrors "childcare-tasks.com/childcare-tasks/internal/errors"
	"childcare-tasks.com/childcare-tasks/internal/http/validators"
	"childcare-tasks.com/childcare-tasks/internal/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(echomw.Recover())
	return e
}

// ErrorHandler renders every error as {"code", "message"}. Errors that are
// neither Exceptions nor echo errors are logged and reported as 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := render(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to write error response")
	}
}

func render(err error) (int, ErrorResponse) {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode, ErrorResponse{Code: string(appErr.Kind), Message: appErr.Message}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorResponse{Code: kindForStatus(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    string(apperrors.KindInternal),
		Message: "internal server error",
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(apperrors.KindBadRequest)
	case http.StatusUnauthorized:
		return string(apperrors.KindUnauthorized)
	case http.StatusForbidden:
		return string(apperrors.KindForbidden)
	case http.StatusNotFound:
		return string(apperrors.KindNotFound)
	case http.StatusTooManyRequests:
		return string(apperrors.KindRateLimited)
	case http.StatusInternalServerError:
		return string(apperrors.KindInternal)
	default:
		return http.StatusText(status)
	}
}

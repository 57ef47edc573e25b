package errors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindRateLimited  Kind = "TOO_MANY_REQUESTS"
	KindInternal     Kind = "INTERNAL_SERVER_ERROR"
)

type Exception struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// Is matches on kind and message so that constructed errors compare equal to sentinels.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func BadRequest(message string) *Exception {
	return &Exception{Kind: KindBadRequest, Message: message, StatusCode: http.StatusBadRequest}
}

func Unauthorized(message string) *Exception {
	return &Exception{Kind: KindUnauthorized, Message: message, StatusCode: http.StatusUnauthorized}
}

func Forbidden(message string) *Exception {
	return &Exception{Kind: KindForbidden, Message: message, StatusCode: http.StatusForbidden}
}

func NotFound(message string) *Exception {
	return &Exception{Kind: KindNotFound, Message: message, StatusCode: http.StatusNotFound}
}

func TooManyRequests(message string) *Exception {
	return &Exception{Kind: KindRateLimited, Message: message, StatusCode: http.StatusTooManyRequests}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func KindOf(err error) Kind {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

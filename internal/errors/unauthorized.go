package errors

var ErrMissingToken = Unauthorized("missing bearer token")

var ErrInvalidToken = Unauthorized("invalid bearer token")

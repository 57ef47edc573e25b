package errors

var ErrRateLimited = TooManyRequests("rate limit exceeded")

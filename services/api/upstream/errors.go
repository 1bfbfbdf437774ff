package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds surfaced by the client. Match them with errors.Is.
var (
	ErrRateLimited        = errors.New("upstream rate limit exceeded")
	ErrServiceUnavailable = errors.New("upstream service temporarily unavailable")
	ErrBadJSON            = errors.New("upstream returned malformed JSON")
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	switch e.Code {
	case http.StatusTooManyRequests:
		return "RATE_LIMIT"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Is maps 429 and 503 onto their sentinel errors.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	case ErrServiceUnavailable:
		return e.Code == http.StatusServiceUnavailable
	}
	return false
}

// DecodeError is a 2xx response whose body is not JSON.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string { return "BAD_JSON: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrBadJSON }

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrBadJSON):
		return "bad_json"
	default:
		return "transport"
	}
}

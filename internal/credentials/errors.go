package credentials

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound       = errors.New("credential not found")
	ErrAlreadyIssued  = errors.New("credential already issued for identity")
	ErrInvalidCode    = errors.New("credential code format invalid")
	ErrInvalidRequest = errors.New("invalid request")
)

// MapHTTPStatus translates credential errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyIssued):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package submission

import "errors"

var (
	ErrEmpty    = errors.New("submission is empty")
	ErrTooShort = errors.New("submission below minimum length")
	ErrTooLong  = errors.New("submission exceeds maximum length")
	ErrBlocked  = errors.New("submission contains blocked content")
)

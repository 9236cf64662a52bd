package mestri

import "errors"

var (
	ErrMestriNotFound     = errors.New("mestri not found")
	ErrMestriIDExists     = errors.New("mestri id already exists")
	ErrInvalidPhoneNumber = errors.New("phone number must be 10 digits")
)

package classes

import "errors"

var (
	ErrClassNotFound      = errors.New("class not found")
	ErrClassFull          = errors.New("class is full")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

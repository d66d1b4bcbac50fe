package staff

import "errors"

var (
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrStaffEmailTaken    = errors.New("staff email already registered")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

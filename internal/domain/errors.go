package domain

import "errors"

// ErrValidation is the root of every validation failure raised by this package.
// Use errors.Is(err, ErrValidation) to detect them and errors.As with
// *ValidationError to read the offending field.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single rejected field. Its message is safe to
// return to API clients verbatim.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Field-level validation errors.
var (
	ErrEmptyID             = invalid("id", "ID cannot be empty")
	ErrEmptyName           = invalid("name", "Name is required")
	ErrEmptyEmail          = invalid("email", "Email is required")
	ErrInvalidEmail        = invalid("email", "Invalid email!")
	ErrNegativeAge         = invalid("age", "Age must be positive!")
	ErrEmptyPassword       = invalid("password", "Password is required")
	ErrPasswordTooShort    = invalid("password", "Password must be at least 7 characters long")
	ErrPasswordForbidden   = invalid("password", `Password cannot contain the string "password"`)
	ErrEmptyHashedPassword = invalid("password", "hashed password cannot be empty")
	ErrEmptyDescription    = invalid("description", "Description is required")
	ErrEmptyOwner          = invalid("owner", "Owner is required")
)

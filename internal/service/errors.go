package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the services. Callers check them with errors.Is;
// the API layer maps each to a status code.
var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password alike, so callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("unable to login")

	// ErrUnauthenticated is returned by Authenticate when a token is not
	// valid or is no longer in the user's active token list.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnknownField is returned when a partial update names a field that
	// may not be changed.
	ErrUnknownField = errors.New("invalid field")

	// ErrInvalidAvatar is returned for uploads that are not a JPEG or PNG image.
	ErrInvalidAvatar = errors.New("please upload an image file")

	// ErrAvatarTooLarge is returned for uploads over MaxAvatarBytes.
	ErrAvatarTooLarge = errors.New("file too large")

	// ErrNilDependency is returned by constructors given a nil dependency.
	ErrNilDependency = errors.New("required dependency is nil")
)

// UnknownFieldError lists the offending fields of a rejected update.
type UnknownFieldError struct {
	Fields []string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("invalid field: %s", strings.Join(e.Fields, ", "))
}

// Unwrap returns ErrUnknownField.
func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

func nilDependency(name string) error {
	return fmt.Errorf("%w: %s", ErrNilDependency, name)
}

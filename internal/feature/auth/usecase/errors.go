package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// Both cases share one error so callers cannot tell which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRole is returned when a role is not Admin, Employer or Employee.
	ErrInvalidRole = errors.New("role must be one of Admin, Employer, Employee")

	// ErrWeakPassword is returned when a password is shorter than the minimum length.
	ErrWeakPassword = errors.New("password is too short")

	// ErrInvalidInput is returned when a required registration field is missing or too long.
	ErrInvalidInput = errors.New("invalid registration input")

	// ErrInvalidToken is returned when a token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
)

// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"hrms_backend/internal/feature/auth/domain/entity"
	"hrms_backend/internal/shared/authz"
)

const (
	// minPasswordLength is the minimum number of characters in a password.
	minPasswordLength = 8

	maxEmailLength = 255
	maxNameLength  = 100
)

// dummyHash is compared against when the email is unknown so that Login takes the
// same time whether or not the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists for a taken email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no live user has email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no live user has id.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator issues signed tokens.
type JWTGenerator interface {
	GenerateToken(userID uint, email, role string) (string, time.Time, error)
}

// JWTVerifier checks a token's signature and expiry and returns its subject.
type JWTVerifier interface {
	VerifyToken(token string) (uint, error)
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      authz.Role
}

// AuthResult is returned by a successful login or registration.
type AuthResult struct {
	Token     string
	Email     string
	Role      authz.Role
	ExpiresAt time.Time
}

// authUsecase implements authentication business logic.
type authUsecase struct {
	users    UserRepository
	issuer   JWTGenerator
	verifier JWTVerifier
}

// NewAuthUsecase creates an auth usecase.
func NewAuthUsecase(users UserRepository, issuer JWTGenerator, verifier JWTVerifier) *authUsecase {
	return &authUsecase{
		users:    users,
		issuer:   issuer,
		verifier: verifier,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword checks the password meets the minimum length.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case in.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case utf8.RuneCountInString(in.Email) > maxEmailLength:
		return fmt.Errorf("%w: email must be at most %d characters", ErrInvalidInput, maxEmailLength)
	case strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "":
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	case utf8.RuneCountInString(in.FirstName) > maxNameLength || utf8.RuneCountInString(in.LastName) > maxNameLength:
		return fmt.Errorf("%w: names must be at most %d characters", ErrInvalidInput, maxNameLength)
	case !in.Role.Valid():
		return ErrInvalidRole
	}
	return validatePassword(in.Password)
}

// Register creates an account with a bcrypt-hashed password and signs the caller in.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u.issue(user)
}

// Login authenticates a user and returns a signed token.
// The bcrypt comparison runs even for unknown emails.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

// ValidateToken reports whether token is a valid, unexpired token of a live user.
func (u *authUsecase) ValidateToken(ctx context.Context, token string) (bool, error) {
	userID, err := u.verifier.VerifyToken(token)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := u.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, ErrInvalidToken
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return true, nil
}

func (u *authUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := u.issuer.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{
		Token:     token,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms_backend/internal/api"
	"hrms_backend/internal/feature/auth/transport/http/dto"
	"hrms_backend/internal/feature/auth/usecase"
	"hrms_backend/internal/platform/http/middleware"
	jwtmw "hrms_backend/internal/platform/jwt"
	"hrms_backend/internal/platform/metrics"
	"hrms_backend/internal/shared/authz"
)

// AuthUsecase defines the authentication operations the handler depends on.
type AuthUsecase interface {
	// Register creates an account and returns a token for it.
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login authenticates a user and returns a token.
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// ValidateToken reports whether a token is still valid.
	ValidateToken(ctx context.Context, token string) (bool, error)
}

// PolicyChecker decides whether a role satisfies an authorization policy.
type PolicyChecker interface {
	Allowed(role authz.Role, policy authz.Policy) (bool, error)
}

// EventRecorder counts authentication operations by outcome.
type EventRecorder interface {
	RecordAuthEvent(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}

// AuthHandler handles the /api/auth endpoints.
type AuthHandler struct {
	auth     AuthUsecase
	policies PolicyChecker
	events   EventRecorder
}

// NewAuthHandler creates an AuthHandler. events may be nil.
// With a nil policies only Employee accounts can be registered.
func NewAuthHandler(auth AuthUsecase, policies PolicyChecker, events EventRecorder) *AuthHandler {
	if events == nil {
		events = noopRecorder{}
	}
	return &AuthHandler{auth: auth, policies: policies, events: events}
}

func toAuthRes(r *usecase.AuthResult) *dto.AuthRes {
	return &dto.AuthRes{
		Token:     r.Token,
		Email:     r.Email,
		Role:      string(r.Role),
		ExpiresAt: r.ExpiresAt.UTC(),
	}
}

// Register handles POST /api/auth/register.
// Anyone may create an Employee account; Admin and Employer accounts need an
// admin bearer token, read from the context set by jwtmw.OptionalAuth.
//   - 400 on validation errors, a taken email or any rejected input
//   - 403 when the caller may not assign the requested role
//   - 200 with a token on success
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP(), "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusBadRequest, api.Fail[*dto.AuthRes]("invalid request", err.Error()))
		return
	}

	role := authz.Role(req.Role)
	if role != authz.RoleEmployee && !h.mayAssignRoles(c) {
		h.events.RecordAuthEvent("register", metrics.OutcomeFailure)
		slog.Warn("register rejected: role requires an admin", "role", role, "caller_role", jwtmw.RoleFrom(c), "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusForbidden, api.Fail[*dto.AuthRes]("only an admin can register "+req.Role+" accounts"))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	})
	if err != nil {
		h.events.RecordAuthEvent("register", metrics.OutcomeFailure)
		if isExpected(err) {
			slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.Fail[*dto.AuthRes](err.Error()))
			return
		}
		slog.Error("register failed", "error", err, "email", req.Email, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, api.Fail[*dto.AuthRes]("internal server error"))
		return
	}

	h.events.RecordAuthEvent("register", metrics.OutcomeSuccess)
	slog.Info("user registration successful", "email", res.Email, "role", res.Role, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK(toAuthRes(res), "Registration successful"))
}

// Login handles POST /api/auth/login.
//   - 400 on validation errors and bad credentials
//   - 200 with a token on success
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP(), "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusBadRequest, api.Fail[*dto.AuthRes]("invalid request", err.Error()))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.events.RecordAuthEvent("login", metrics.OutcomeFailure)
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// Do not reveal whether the email exists.
			slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.Fail[*dto.AuthRes]("invalid email or password"))
			return
		}
		slog.Error("login failed", "error", err, "email", req.Email, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, api.Fail[*dto.AuthRes]("internal server error"))
		return
	}

	h.events.RecordAuthEvent("login", metrics.OutcomeSuccess)
	slog.Info("user login successful", "email", res.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK(toAuthRes(res), "Login successful"))
}

// Validate handles POST /api/auth/validate: 200 with true, or 401 with false.
func (h *AuthHandler) Validate(c *gin.Context) {
	var req dto.ValidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, api.Fail[bool]("invalid token"))
		return
	}

	ok, err := h.auth.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, api.Fail[bool]("invalid token"))
			return
		}
		slog.Error("token validation failed", "error", err, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, api.Fail[bool]("internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.OK(ok, "Token is valid"))
}

// mayAssignRoles reports whether the authenticated caller passes the admin policy.
func (h *AuthHandler) mayAssignRoles(c *gin.Context) bool {
	caller := jwtmw.RoleFrom(c)
	if h.policies == nil || caller == "" {
		return false
	}
	ok, err := h.policies.Allowed(authz.Role(caller), authz.PolicyAdminOnly)
	if err != nil {
		slog.Error("policy check failed", "error", err, "request_id", middleware.GetRequestID(c))
		return false
	}
	return ok
}

func isExpected(err error) bool {
	return errors.Is(err, usecase.ErrEmailAlreadyExists) ||
		errors.Is(err, usecase.ErrInvalidRole) ||
		errors.Is(err, usecase.ErrWeakPassword) ||
		errors.Is(err, usecase.ErrInvalidInput)
}

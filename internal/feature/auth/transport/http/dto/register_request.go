package dto

import "time"

// RegisterReq is the request body for POST /api/auth/register.
type RegisterReq struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Role      string `json:"role" binding:"required,oneof=Admin Employer Employee"`
}

// AuthRes is returned by login and registration.
type AuthRes struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

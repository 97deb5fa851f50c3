// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// LoginReq is the request body for POST /api/auth/login.
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ValidateReq is the request body for POST /api/auth/validate.
type ValidateReq struct {
	Token string `json:"token" binding:"required"`
}

// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100" example:"saha.ekibi"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Login successful"`
	Data    struct {
		AccessToken string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		TokenType   string    `json:"token_type" example:"Bearer"`
		ExpiresIn   int       `json:"expires_in" example:"43200"`
		ExpiresAt   time.Time `json:"expires_at" example:"2024-01-15T16:30:00Z"`
		User        UserInfo  `json:"user"`
	} `json:"data"`
}

// UserInfo represents user information returned in login response
type UserInfo struct {
	ID        uint   `json:"id" example:"123"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username  string `json:"username" example:"saha.ekibi"`
	Role      string `json:"role" example:"user"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SetUserInfo fills the nested user block of a login response
func (dto *LoginResponse) SetUserInfo(userID uint, uuid, username, role string, isActive *bool, createdAt time.Time) {
	dto.Data.User = UserInfo{
		ID:        userID,
		UUID:      uuid,
		Username:  username,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: createdAt.Format(time.RFC3339),
	}
}

// Common error codes for auth operations
const (
	ErrorUserNotFound      = "USER_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorAccountInactive   = "ACCOUNT_INACTIVE"
)

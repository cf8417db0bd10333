package dto

import "github.com/daftarhq/daftar/internal/core/domain"

// LoginRequest authenticates a local operator.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the operator's role.
type LoginResponse struct {
	Token    string      `json:"token"`
	UserID   string      `json:"userID"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// CreateUserRequest adds an operator account.
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     domain.Role `json:"role" binding:"required,role"`
}

// UserResponse is the API representation of a user (no password hash).
type UserResponse struct {
	UserID   string      `json:"userID"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"isActive"`
}

// ToUserResponse strips credentials from a domain user.
func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

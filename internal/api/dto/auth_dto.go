package dto

import (
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/registry"
)

// RegisterRequest payload for new accounts. Role is optional and defaults
// to User.
type RegisterRequest struct {
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	CustomerID string      `json:"customerId"`
	Role       domain.Role `json:"role,omitempty"`
	FirstName  string      `json:"firstName,omitempty"`
	LastName   string      `json:"lastName,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user. The password hash is never
// serialized.
type UserResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	CustomerID string      `json:"customerId"`
	Role       domain.Role `json:"role"`
	FirstName  string      `json:"firstName,omitempty"`
	LastName   string      `json:"lastName,omitempty"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ScreensResponse lists the caller's tenant navigation entries.
type ScreensResponse struct {
	Screens []registry.Screen `json:"screens"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		CustomerID: user.CustomerID,
		Role:       user.Role,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
	}
}

package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone"`
	Role     domain.Role `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token with its expiry.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ConfirmEmailRequest payload.
type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

// ResendConfirmationRequest payload.
type ResendConfirmationRequest struct {
	Email string `json:"email"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// UserResponse is the public account shape. The password hash never
// leaves the server.
type UserResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Role            domain.Role       `json:"role"`
	Phone           string            `json:"phone,omitempty"`
	ProfileImageURL *string           `json:"profileImageUrl,omitempty"`
	Status          domain.UserStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// UserFromDomain maps a domain user to its response shape.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Phone:           u.Phone,
		ProfileImageURL: u.ProfileImageURL,
		Status:          u.Status,
		CreatedAt:       u.CreatedAt,
	}
}

package user

import (
	"time"

	domainUser "job-board/internal/domain/user"
	"job-board/pkg/utils"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,user_role"`
}

type ActivateRequest struct {
	ActivationCode string `json:"activation_code"`
	// Token comes from the activation_token cookie or the bearer header.
	Token string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ProfileResponse is the login payload.
type ProfileResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type RegisterResult struct {
	ActivationToken string
	ExpiresAt       time.Time
}

type AuthResult struct {
	Profile *ProfileResponse
	Tokens  *utils.TokenPair
}

func ToProfileResponse(u *domainUser.User) *ProfileResponse {
	if u == nil {
		return nil
	}
	return &ProfileResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

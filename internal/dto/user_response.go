package dto

import (
	"time"

	"github.com/hrstack/onboarding-service/internal/domain"
)

// UserResponse is the sanitized user shape: no password hash, no lockout
// internals.
type UserResponse struct {
	ID            int64      `json:"id"`
	ExternalID    string     `json:"external_id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Role          string     `json:"role"`
	Department    string     `json:"department"`
	EmailVerified bool       `json:"email_verified"`
	IsActive      bool       `json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		ExternalID:    u.ExternalID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          string(u.Role),
		Department:    u.Department,
		EmailVerified: u.EmailVerified,
		IsActive:      u.IsActive,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	SessionID int64        `json:"session_id"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type SessionResponse struct {
	ID        int64     `json:"id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func ToSessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		IPAddress: s.IPAddress,
		UserAgent: s.UserAgent,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}

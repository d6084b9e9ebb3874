package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaporlab/vaporlab-backend/pkg/db/models"
)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// SourceIP is filled by the controller from the connection, never
	// by the client.
	SourceIP string `json:"-"`
}

// RegisterRequest bootstraps a dashboard account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=10"`
	Name     string `json:"name" validate:"required"`
}

// UserDTO is the dashboard identity payload.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse carries the minted token and its lifetime.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   int     `json:"expires_in"`
	User        UserDTO `json:"user"`
}

func userFromModel(row *models.User) UserDTO {
	return UserDTO{
		ID:          row.ID,
		Email:       row.Email,
		Name:        row.Name,
		Role:        row.Role.String(),
		LastLoginAt: row.LastLoginAt,
	}
}

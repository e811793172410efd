package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/lbstore/storefront-backend/pkg/db/models"
)

// Credentials is the admin login input.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Admin is the public shape of an admin user.
type Admin struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func adminFromModel(m *models.AdminUser) Admin {
	return Admin{ID: m.ID, Email: m.Email, LastLoginAt: m.LastLoginAt}
}

// Session is a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccessID    string    `json:"-"`
	Admin       Admin     `json:"admin"`
}

package domain

import (
	"time"
)

// Session is the authenticated caller extracted from a validated session token
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Permissions []string  `json:"permissions,omitempty"` // embedded codes, e.g. for bootstrap accounts
	ExpiresAt   time.Time `json:"expires_at"`
}

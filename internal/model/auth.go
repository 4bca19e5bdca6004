package model

import (
	"time"

	"github.com/google/uuid"
)

type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// TokenClaims is the identity carried by a verified access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   UserRole
}

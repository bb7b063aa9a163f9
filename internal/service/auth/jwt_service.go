package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and checks signed session tokens.
type JWTService interface {
	// GenerateToken signs a new session token for userID and returns it with
	// its claims. Every token carries a fresh ID so it can be revoked alone.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, *Claims, error)

	// ValidateToken checks signature and expiry and returns the claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is what a validated session token tells us about its holder.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Remaining returns how long the token stays valid after now, never negative.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

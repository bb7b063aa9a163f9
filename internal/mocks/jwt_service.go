package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, *auth.Claims, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Claims      *auth.Claims
	Err         error
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, *auth.Claims, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Claims, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// MockRevocationChecker reports revoked token ids from a set.
type MockRevocationChecker struct {
	IsRevokedFn func(ctx context.Context, tokenID string) (bool, error)

	Revoked map[string]bool
	Err     error
}

// IsRevoked implements middleware.RevocationChecker
func (m *MockRevocationChecker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, tokenID)
	}
	return m.Revoked[tokenID], m.Err
}

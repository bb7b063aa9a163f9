package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role decides which actions and transitions a profile may trigger.
type Role string

// Known roles. RoleUnset is the role of a freshly registered profile.
const (
	RoleUnset Role = ""
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts raw input into a Role. Empty input is RoleUnset.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleUnset, RoleAdmin, RoleUser:
		return r, nil
	default:
		return RoleUnset, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Profile carries a user's role and team.
type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	TeamID    *int64    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile returns the profile a user has before choosing anything:
// unset role, no team.
func NewProfile(userID uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{UserID: userID, CreatedAt: now, UpdatedAt: now}
}

// HasTeam reports whether the profile belongs to a team.
func (p *Profile) HasTeam() bool {
	return p != nil && p.TeamID != nil
}

// InTeam reports whether the profile belongs to teamID.
func (p *Profile) InTeam(teamID int64) bool {
	return p.HasTeam() && *p.TeamID == teamID
}

// Validate checks the profile's fields.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return NewValidationError("role", "must be admin or user", err)
	}
	if p.TeamID != nil && *p.TeamID <= 0 {
		return NewValidationError("team", "is not a valid team", ErrInvalidID)
	}
	return nil
}

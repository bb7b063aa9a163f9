package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTeamNameLength bounds Team.Name, in characters.
const MaxTeamNameLength = 100

// Team partitions task visibility and ownership.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTeam returns an unsaved team with a trimmed name.
func NewTeam(name string) (*Team, error) {
	t := &Team{Name: strings.TrimSpace(name), CreatedAt: time.Now().UTC()}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the team's fields.
func (t *Team) Validate() error {
	if t.Name == "" {
		return NewValidationError("name", "is required", nil)
	}
	if utf8.RuneCountInString(t.Name) > MaxTeamNameLength {
		return NewValidationError("name", "is too long", nil)
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTeamStore keeps teams in memory and enforces unique names.
type fakeTeamStore struct {
	teams   []*domain.Team
	failFor string
}

func (s *fakeTeamStore) List(context.Context) ([]*domain.Team, error) {
	return s.teams, nil
}

func (s *fakeTeamStore) GetByID(_ context.Context, id int64) (*domain.Team, error) {
	for _, t := range s.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, store.ErrTeamNotFound
}

func (s *fakeTeamStore) GetByName(_ context.Context, name string) (*domain.Team, error) {
	for _, t := range s.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, store.ErrTeamNotFound
}

func (s *fakeTeamStore) Create(_ context.Context, team *domain.Team) error {
	if team.Name == s.failFor {
		return errors.New("connection reset")
	}
	if _, err := s.GetByName(context.Background(), team.Name); err == nil {
		return store.ErrTeamExists
	}
	team.ID = int64(len(s.teams) + 1)
	s.teams = append(s.teams, team)
	return nil
}

func TestParseTeamsFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{
			name:  "names are trimmed",
			input: "teams:\n  - name: Platform\n  - name: \"  Support \"\n",
			want:  []string{"Platform", "Support"},
		},
		{
			name:  "empty file",
			input: "",
			want:  []string{},
		},
		{
			name:    "duplicate name",
			input:   "teams:\n  - name: Ops\n  - name: Ops\n",
			wantErr: `team 2: duplicate name "Ops"`,
		},
		{
			name:    "blank name",
			input:   "teams:\n  - name: \"\"\n",
			wantErr: "team 1",
		},
		{
			name:    "unknown field",
			input:   "teams:\n  - title: Ops\n",
			wantErr: "failed to parse teams file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams, err := parseTeamsFile(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(teams))
			for _, team := range teams {
				names = append(names, team.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSeedTeams(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	existing := &domain.Team{ID: 1, Name: "Platform"}

	t.Run("skips existing teams", func(t *testing.T) {
		s := &fakeTeamStore{teams: []*domain.Team{existing}}
		seed := []*domain.Team{{Name: "Platform"}, {Name: "Support"}}

		created, err := seedTeams(context.Background(), s, seed, logger)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Len(t, s.teams, 2)
		assert.Equal(t, int64(2), seed[1].ID)

		created, err = seedTeams(context.Background(), s, []*domain.Team{{Name: "Support"}}, logger)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("stops on store failure", func(t *testing.T) {
		s := &fakeTeamStore{failFor: "Support"}
		seed := []*domain.Team{{Name: "Ops"}, {Name: "Support"}, {Name: "Sales"}}

		created, err := seedTeams(context.Background(), s, seed, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"Support"`)
		assert.Equal(t, 1, created)
	})
}

func TestWriteTeams(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTeams(&buf, []*domain.Team{{ID: 1, Name: "Platform"}, {ID: 12, Name: "Support"}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "NAME"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"12", "Support"}, strings.Fields(lines[2]))
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"migrate", "version"},
		{"teams", "seed"},
		{"teams", "list"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	seed, _, err := root.Find([]string{"teams", "seed"})
	require.NoError(t, err)
	assert.Equal(t, "teams.yaml", seed.Flags().Lookup("file").DefValue)
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	err := runMigrations(context.Background(), nil, "redo-all", slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "redo-all"`)
}

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("OK   %s\n", "00001_create_users.sql")
	l.Fatalf("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, `level=INFO msg="OK   00001_create_users.sql"`)
	assert.Contains(t, out, `level=ERROR msg="failed: boom"`)
}

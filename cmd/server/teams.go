package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/postgres"
	"github.com/phrazzld/teamtasks/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// teamsFile is the seed file layout:
//
//	teams:
//	  - name: Platform
//	  - name: Support
type teamsFile struct {
	Teams []struct {
		Name string `yaml:"name"`
	} `yaml:"teams"`
}

// parseTeamsFile decodes and validates a seed file. Duplicate names within
// the file are rejected.
func parseTeamsFile(r io.Reader) ([]*domain.Team, error) {
	var f teamsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse teams file: %w", err)
	}

	seen := make(map[string]bool, len(f.Teams))
	teams := make([]*domain.Team, 0, len(f.Teams))
	for i, entry := range f.Teams {
		team, err := domain.NewTeam(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", i+1, err)
		}
		if seen[team.Name] {
			return nil, fmt.Errorf("team %d: duplicate name %q", i+1, team.Name)
		}
		seen[team.Name] = true
		teams = append(teams, team)
	}
	return teams, nil
}

// seedTeams creates every team that does not exist yet and returns how many
// were created. Existing teams are left alone.
func seedTeams(ctx context.Context, teams store.TeamStore, seed []*domain.Team, logger *slog.Logger) (int, error) {
	created := 0
	for _, team := range seed {
		err := teams.Create(ctx, team)
		switch {
		case errors.Is(err, store.ErrTeamExists):
			logger.Debug("team already exists", slog.String("name", team.Name))
		case err != nil:
			return created, fmt.Errorf("failed to create team %q: %w", team.Name, err)
		default:
			created++
			logger.Info("team created", slog.String("name", team.Name), slog.Int64("id", team.ID))
		}
	}
	return created, nil
}

func writeTeams(w io.Writer, teams []*domain.Team) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, t := range teams {
		fmt.Fprintf(tw, "%d\t%s\n", t.ID, t.Name)
	}
	return tw.Flush()
}

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage teams",
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Create the teams listed in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("file")
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open teams file: %w", err)
			}
			defer func() { _ = f.Close() }()

			teams, err := parseTeamsFile(f)
			if err != nil {
				return err
			}

			cfg, l, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg.Database, l)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			created, err := seedTeams(cmd.Context(), postgres.NewPostgresTeamStore(db, l), teams, l)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d teams created\n", created, len(teams))
			return nil
		},
	}
	seed.Flags().StringP("file", "f", "teams.yaml", "YAML file listing the teams")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg.Database, l)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			teams, err := postgres.NewPostgresTeamStore(db, l).List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}
			return writeTeams(cmd.OutOrStdout(), teams)
		},
	}

	cmd.AddCommand(seed, list)
	return cmd
}

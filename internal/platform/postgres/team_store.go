package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/store"
)

// PostgresTeamStore implements store.TeamStore.
type PostgresTeamStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeamStore creates a TeamStore on db.
func NewPostgresTeamStore(db store.DBTX, logger *slog.Logger) *PostgresTeamStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTeamStore{
		db:     db,
		logger: logger.With(slog.String("component", "team_store")),
	}
}

var _ store.TeamStore = (*PostgresTeamStore)(nil)

// List implements store.TeamStore.List
func (s *PostgresTeamStore) List(ctx context.Context) ([]*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM teams ORDER BY name`)
	if err != nil {
		log.Error("failed to list teams", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			log.Error("failed to scan team row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating team rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return teams, nil
}

// GetByID implements store.TeamStore.GetByID
func (s *PostgresTeamStore) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	return s.getOne(ctx, `SELECT id, name, created_at FROM teams WHERE id = $1`, id)
}

// GetByName implements store.TeamStore.GetByName
func (s *PostgresTeamStore) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	return s.getOne(ctx, `SELECT id, name, created_at FROM teams WHERE name = $1`, name)
}

func (s *PostgresTeamStore) getOne(ctx context.Context, query string, arg any) (*domain.Team, error) {
	var t domain.Team
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTeamNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get team",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &t, nil
}

// Create implements store.TeamStore.Create
func (s *PostgresTeamStore) Create(ctx context.Context, team *domain.Team) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := team.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO teams (name, created_at) VALUES ($1, $2) RETURNING id`,
		team.Name, team.CreatedAt,
	).Scan(&team.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrTeamExists)
		}
		log.Error("failed to create team",
			slog.String("error", err.Error()),
			slog.String("name", team.Name))
		return MapError(err)
	}

	log.Info("team created", slog.Int64("team_id", team.ID), slog.String("name", team.Name))
	return nil
}

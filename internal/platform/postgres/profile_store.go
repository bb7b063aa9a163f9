package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/store"
)

// Foreign key constraints on profiles, as named in migrations.
const (
	profileUserFKey = "profiles_user_id_fkey"
	profileTeamFKey = "profiles_team_id_fkey"
)

// PostgresProfileStore implements store.ProfileStore.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a ProfileStore on db. A nil logger means slog.Default().
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{db: tx, logger: s.logger}
}

// Get implements store.ProfileStore.Get
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, role, team_id, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var (
		p      domain.Profile
		role   string
		teamID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&role,
		&teamID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("user_id", userID.String()))
			return nil, store.ErrNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	p.Role = domain.Role(role)
	if teamID.Valid {
		id := teamID.Int64
		p.TeamID = &id
	}
	return &p, nil
}

// Upsert implements store.ProfileStore.Upsert
func (s *PostgresProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return err
	}

	var teamID sql.NullInt64
	if profile.TeamID != nil {
		teamID = sql.NullInt64{Int64: *profile.TeamID, Valid: true}
	}

	query := `
		INSERT INTO profiles (user_id, role, team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET role = EXCLUDED.role, team_id = EXCLUDED.team_id, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		profile.UserID,
		string(profile.Role),
		teamID,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("profile references a missing team or user",
				slog.String("user_id", profile.UserID.String()),
				slog.String("error", err.Error()))
			switch ConstraintName(err) {
			case profileUserFKey:
				return store.ErrUserNotFound
			case profileTeamFKey:
				return store.ErrTeamNotFound
			}
			if profile.TeamID != nil {
				return store.ErrTeamNotFound
			}
			return store.ErrUserNotFound
		}
		log.Error("failed to upsert profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return MapError(err)
	}

	log.Debug("profile saved",
		slog.String("user_id", profile.UserID.String()),
		slog.String("role", string(profile.Role)))
	return nil
}

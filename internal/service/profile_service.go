package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/store"
)

// ProfileService reads and changes a user's role and team.
type ProfileService interface {
	// Get returns the user's profile, or the zero profile (unset role, no
	// team) when none exists yet. It never creates one.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Teams lists the teams a user may choose from.
	Teams(ctx context.Context) ([]*domain.Team, error)

	// SelectRoleAndTeam creates the profile if needed and sets role and
	// team. A nil teamID clears the team. An empty role means unset.
	SelectRoleAndTeam(ctx context.Context, userID uuid.UUID, role string, teamID *int64) (*domain.Profile, error)
}

type profileServiceImpl struct {
	profiles store.ProfileStore
	teams    store.TeamStore
	logger   *slog.Logger
}

var _ ProfileService = (*profileServiceImpl)(nil)

// NewProfileService creates a ProfileService.
func NewProfileService(
	profiles store.ProfileStore,
	teams store.TeamStore,
	logger *slog.Logger,
) (ProfileService, error) {
	if err := errors.Join(
		requireDep("profiles", profiles == nil),
		requireDep("teams", teams == nil),
		requireDep("logger", logger == nil),
	); err != nil {
		return nil, err
	}
	return &profileServiceImpl{
		profiles: profiles,
		teams:    teams,
		logger:   logger.With(slog.String("component", "profile_service")),
	}, nil
}

// loadProfile returns the stored profile or the zero profile for userID.
func loadProfile(ctx context.Context, profiles store.ProfileStore, userID uuid.UUID) (*domain.Profile, error) {
	p, err := profiles.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if store.IsNotFoundError(err) {
		return &domain.Profile{UserID: userID}, nil
	}
	return nil, err
}

// Get implements ProfileService.
func (s *profileServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, NewServiceError("profile", "get", "failed to load profile", err)
	}
	return p, nil
}

// Teams implements ProfileService.
func (s *profileServiceImpl) Teams(ctx context.Context) ([]*domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, NewServiceError("profile", "teams", "failed to list teams", err)
	}
	return teams, nil
}

// SelectRoleAndTeam implements ProfileService.
func (s *profileServiceImpl) SelectRoleAndTeam(
	ctx context.Context,
	userID uuid.UUID,
	role string,
	teamID *int64,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, domain.NewValidationError("role", "must be admin or user", err)
	}

	if teamID != nil {
		if _, err := s.teams.GetByID(ctx, *teamID); err != nil {
			if store.IsNotFoundError(err) {
				return nil, store.ErrTeamNotFound
			}
			return nil, NewServiceError("profile", "select", "failed to load team", err)
		}
	}

	profile, err := s.profiles.Get(ctx, userID)
	switch {
	case store.IsNotFoundError(err):
		profile = domain.NewProfile(userID)
	case err != nil:
		return nil, NewServiceError("profile", "select", "failed to load profile", err)
	}

	profile.Role = parsed
	profile.TeamID = teamID
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		if errors.Is(err, store.ErrTeamNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, NewServiceError("profile", "select", "failed to save profile", err)
	}

	log.Info("role and team selected",
		slog.String("user_id", userID.String()),
		slog.String("role", string(profile.Role)),
		slog.Bool("has_team", profile.HasTeam()))
	return profile, nil
}

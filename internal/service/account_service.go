package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/teamtasks/internal/domain"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
	"github.com/phrazzld/teamtasks/internal/service/auth"
	"github.com/phrazzld/teamtasks/internal/store"
)

// SessionRevoker remembers logged-out session tokens until they expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// Session is an issued session token with its claims.
type Session struct {
	Token  string
	Claims *auth.Claims
}

// AccountService registers users and manages their sessions.
type AccountService interface {
	// Register creates the user and an empty profile in one transaction and
	// opens a session. password2 must repeat password1.
	Register(ctx context.Context, username, password1, password2 string) (*Session, error)

	// Login checks credentials and opens a session. Unknown usernames and
	// wrong passwords both return auth.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*Session, error)

	// Logout revokes the session described by claims until it expires.
	Logout(ctx context.Context, claims *auth.Claims) error
}

type accountServiceImpl struct {
	db        *sql.DB
	users     store.UserStore
	profiles  store.ProfileStore
	passwords auth.PasswordManager
	tokens    auth.JWTService
	revoker   SessionRevoker
	logger    *slog.Logger
	timeFunc  func() time.Time
}

var _ AccountService = (*accountServiceImpl)(nil)

// NewAccountService creates an AccountService. Every dependency is required.
func NewAccountService(
	db *sql.DB,
	users store.UserStore,
	profiles store.ProfileStore,
	passwords auth.PasswordManager,
	tokens auth.JWTService,
	revoker SessionRevoker,
	logger *slog.Logger,
) (AccountService, error) {
	if err := errors.Join(
		requireDep("db", db == nil),
		requireDep("users", users == nil),
		requireDep("profiles", profiles == nil),
		requireDep("passwords", passwords == nil),
		requireDep("tokens", tokens == nil),
		requireDep("revoker", revoker == nil),
		requireDep("logger", logger == nil),
	); err != nil {
		return nil, err
	}
	return &accountServiceImpl{
		db:        db,
		users:     users,
		profiles:  profiles,
		passwords: passwords,
		tokens:    tokens,
		revoker:   revoker,
		logger:    logger.With(slog.String("component", "account_service")),
		timeFunc:  time.Now,
	}, nil
}

// Register implements AccountService.
func (s *accountServiceImpl) Register(
	ctx context.Context,
	username, password1, password2 string,
) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password1)
	if password1 != password2 {
		err = errors.Join(err, domain.NewValidationError("password2", "the two password fields didn't match", nil))
	}
	if err != nil {
		log.Debug("registration rejected", slog.Any("fields", domain.FieldErrors(err)))
		return nil, err
	}

	hashed, err := s.passwords.Hash(password1)
	if err != nil {
		return nil, NewServiceError("account", "register", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.profiles.WithTx(tx).Upsert(ctx, domain.NewProfile(user.ID))
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("username already taken", slog.String("username", user.Username))
			return nil, domain.NewValidationError("username", "a user with that username already exists", err)
		}
		log.Error("failed to register user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return nil, NewServiceError("account", "register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.openSession(ctx, user.ID)
}

// Login implements AccountService.
func (s *accountServiceImpl) Login(ctx context.Context, username, password string) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown username")
			return nil, auth.ErrInvalidCredentials
		}
		return nil, NewServiceError("account", "login", "failed to load user", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, auth.ErrInvalidCredentials
	}

	return s.openSession(ctx, user.ID)
}

// Logout implements AccountService.
func (s *accountServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return auth.ErrMissingToken
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining(s.timeFunc())); err != nil {
		return NewServiceError("account", "logout", "failed to revoke session", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("session revoked",
		slog.String("user_id", claims.UserID.String()))
	return nil
}

func (s *accountServiceImpl) openSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	token, claims, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &Session{Token: token, Claims: claims}, nil
}

// Package redis keeps the set of revoked session token IDs in Redis.
// Each entry expires together with the token it revokes, so the set never
// outgrows the number of live sessions.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "teamtasks:"

// RevocationStore records logged-out session token IDs.
type RevocationStore struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

// Option configures a RevocationStore.
type Option func(*RevocationStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *RevocationStore) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *RevocationStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// New connects a RevocationStore to the Redis server at address.
func New(address, password string, db int, opts ...Option) *RevocationStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient builds a RevocationStore on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *RevocationStore {
	s := &RevocationStore{
		client: client,
		prefix: defaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "revocation_store"))
	return s
}

func (s *RevocationStore) key(tokenID string) string {
	return s.prefix + "revoked:" + tokenID
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl means the
// token has already expired and nothing is stored.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id cannot be empty")
	}
	if ttl <= 0 {
		s.logger.Debug("token already expired, skipping revocation",
			slog.String("jti", tokenID))
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Debug("token revoked",
		slog.String("jti", tokenID),
		slog.Duration("ttl", ttl))
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// Ping checks connectivity.
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RevocationStore) Close() error {
	return s.client.Close()
}

package credential

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/metrics"
	"github.com/Checker-Finance/repurpose-client/pkg/utils"
)

// Session is the single credential slot the client reads and overwrites.
// There is no delete: a token lives until the next successful login replaces
// it or the backing storage is cleared.
type Session struct {
	logger  *zap.Logger
	store   Store
	key     string
	backend string
}

// NewSession binds a Store and slot key. An empty key uses DefaultKey.
func NewSession(logger *zap.Logger, store Store, key string) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultKey
	}
	backend := "custom"
	if b, ok := store.(interface{ Name() string }); ok {
		backend = b.Name()
	}
	return &Session{
		logger:  logger,
		store:   store,
		key:     key,
		backend: backend,
	}
}

// Key returns the slot name.
func (s *Session) Key() string { return s.key }

// Token returns the stored bearer token, or "" if none was ever stored.
func (s *Session) Token(ctx context.Context) (string, error) {
	v, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		metrics.IncCredentialAccess(s.backend, "get", "error")
		return "", fmt.Errorf("read credential: %w", err)
	}
	if !ok || v == "" {
		metrics.IncCredentialAccess(s.backend, "get", "miss")
		return "", nil
	}
	metrics.IncCredentialAccess(s.backend, "get", "hit")
	return v, nil
}

// SetToken overwrites the slot wholesale.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, s.key, token); err != nil {
		metrics.IncCredentialAccess(s.backend, "set", "error")
		return fmt.Errorf("store credential: %w", err)
	}
	metrics.IncCredentialAccess(s.backend, "set", "ok")
	s.logger.Debug("credential.stored",
		zap.String("backend", s.backend),
		zap.String("key", s.key),
		zap.String("token", utils.MaskToken(token)))
	return nil
}

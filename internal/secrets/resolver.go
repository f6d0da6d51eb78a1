package secrets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	pkgsecrets "github.com/Checker-Finance/repurpose-client/pkg/secrets"
)

// Login is an email/password pair read from a secret.
// Secret format: {"email": "...", "password": "..."}
type Login struct {
	Email    string
	Password string
}

// LoginResolver reads login credentials from a secrets provider. Resolved
// logins are cached for the lifetime of the resolver, so only callers that
// keep one resolver across several Resolve calls save provider round trips;
// a one-shot CLI command fetches exactly once either way.
type LoginResolver struct {
	logger   *zap.Logger
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[Login]
}

// NewLoginResolver constructs a resolver.
func NewLoginResolver(logger *zap.Logger, provider pkgsecrets.Provider, cache *pkgsecrets.Cache[Login]) *LoginResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginResolver{
		logger:   logger,
		provider: provider,
		cache:    cache,
	}
}

// Resolve returns the login stored under secretName.
func (r *LoginResolver) Resolve(ctx context.Context, secretName string) (Login, error) {
	if secretName == "" {
		return Login{}, errors.New("no credentials secret configured")
	}

	return r.cache.GetOrLoad(ctx, secretName, func(ctx context.Context) (Login, error) {
		secretMap, err := r.provider.GetSecret(ctx, secretName)
		if err != nil {
			r.logger.Warn("aws.secret_fetch_failed",
				zap.String("key", secretName),
				zap.Error(err))
			return Login{}, fmt.Errorf("resolve login secret %q: %w", secretName, err)
		}

		l, err := parseLogin(secretMap)
		if err != nil {
			return Login{}, fmt.Errorf("parse secret %q: %w", secretName, err)
		}
		r.logger.Info("aws.login_secret_resolved", zap.String("key", secretName), zap.String("email", l.Email))
		return l, nil
	})
}

// Forget drops a cached login, e.g. after the service rejected it.
func (r *LoginResolver) Forget(secretName string) {
	r.cache.Bust(secretName)
}

func parseLogin(m map[string]string) (Login, error) {
	l := Login{Email: m["email"], Password: m["password"]}
	if l.Email == "" {
		return Login{}, errors.New("missing email")
	}
	if l.Password == "" {
		return Login{}, errors.New("missing password")
	}
	return l, nil
}

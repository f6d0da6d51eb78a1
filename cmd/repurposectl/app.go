package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/config"
	"github.com/Checker-Finance/repurpose-client/internal/credential"
	"github.com/Checker-Finance/repurpose-client/internal/repurpose"
	internalsecrets "github.com/Checker-Finance/repurpose-client/internal/secrets"
	"github.com/Checker-Finance/repurpose-client/internal/ui/console"
	"github.com/Checker-Finance/repurpose-client/pkg/logger"
	"github.com/Checker-Finance/repurpose-client/pkg/secrets"
	"github.com/Checker-Finance/repurpose-client/pkg/utils"
)

// errNoResult makes the process exit 1 after the failure was already
// notified to the user.
var errNoResult = errors.New("no result")

// app carries the configuration and the components built from it for one
// command invocation.
type app struct {
	cfg *config.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// newProvider builds the secrets provider for login --from-secret.
	newProvider func(ctx context.Context, region string) (secrets.Provider, error)

	logger  *zap.Logger
	backend credential.Backend
	session *credential.Session
	ui      *console.UI
	svc     *repurpose.Service
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		cfg:    config.Load(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		newProvider: func(ctx context.Context, region string) (secrets.Provider, error) {
			p, err := secrets.NewAWSProvider(ctx, region)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

// setup opens the credential store and wires the service. Flags have been
// applied to cfg by the time it runs.
func (a *app) setup(ctx context.Context) error {
	cfg := a.cfg
	a.logger = logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)

	if cfg.CredentialPath == "" {
		cfg.CredentialPath = config.DefaultCredentialPath(cfg.CredentialStore)
	}

	backend, err := credential.Open(ctx, credential.Options{
		Kind:      cfg.CredentialStore,
		Path:      cfg.CredentialPath,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
		RedisPass: cfg.RedisPass,
	})
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	a.backend = backend

	location := cfg.CredentialPath
	if backend.Name() == "redis" {
		location = utils.MaskDSN(fmt.Sprintf("redis://:%s@%s/%d", cfg.RedisPass, cfg.RedisAddr, cfg.RedisDB))
	}
	a.logger.Debug("repurposectl.store_opened",
		zap.String("backend", backend.Name()),
		zap.String("location", location),
		zap.String("base_url", cfg.BaseURL))

	a.session = credential.NewSession(a.logger, backend, cfg.TokenKey)
	a.ui = console.New(a.stdout, a.stderr)

	client := repurpose.NewClient(a.logger, cfg.BaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	a.svc = repurpose.NewService(a.logger, client, a.session, a.ui, a.ui, repurpose.Options{
		Targets:    cfg.Targets,
		Variations: cfg.Variations,
		Strict:     cfg.Strict,
	})
	return nil
}

func (a *app) close() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("repurposectl.store_close_failed", zap.Error(err))
	}
	a.backend = nil
}

func (a *app) loginResolver(ctx context.Context) (*internalsecrets.LoginResolver, error) {
	provider, err := a.newProvider(ctx, a.cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("secrets provider: %w", err)
	}
	cache := secrets.NewCache[internalsecrets.Login](a.cfg.SecretCacheTTL)
	return internalsecrets.NewLoginResolver(a.logger, provider, cache), nil
}

// Package credential holds the bearer token slot used to authorize calls to
// the repurpose service, behind a small key/value Store interface.
package credential

import (
	"context"
	"fmt"
)

// DefaultKey is the slot name the token is stored under.
const DefaultKey = "token"

// Store is a string key/value slot store.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend is a Store that owns resources and can name itself for logs and metrics.
type Backend interface {
	Store
	Name() string
	Close() error
}

// Options selects and configures a Backend.
type Options struct {
	Kind      string // memory | file | sqlite | redis
	Path      string // file or sqlite database path
	RedisAddr string
	RedisDB   int
	RedisPass string
}

// Open builds the Backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case "memory":
		return NewMemoryStore(), nil
	case "", "file":
		return NewFileStore(opts.Path)
	case "sqlite":
		return OpenSQLite(ctx, opts.Path)
	case "redis":
		return DialRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPass)
	default:
		return nil, fmt.Errorf("unknown credential store %q", opts.Kind)
	}
}

package secrets

import "context"

// Provider resolves a named secret into its key/value fields.
type Provider interface {
	GetSecret(ctx context.Context, key string) (map[string]string, error)
}

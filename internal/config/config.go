package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Checker-Finance/repurpose-client/pkg/config"
)

// Config holds the runtime configuration for the client.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "repurposectl"
	Env         string // "dev", "uat", "prod"
	LogLevel    string

	BaseURL     string        // repurpose service root
	HTTPTimeout time.Duration // 0 means no client-side timeout
	Targets     []string      // sent with every repurpose request
	Variations  int           // n_variations; 0 omits the field
	Strict      bool          // notify instead of rendering non-2xx repurpose replies

	// Credential slot
	TokenKey        string
	CredentialStore string // memory | file | sqlite | redis
	CredentialPath  string // file or sqlite path
	RedisAddr       string
	RedisDB         int
	RedisPass       string

	// Optional login from AWS Secrets Manager
	CredentialsSecret string
	AWSRegion         string
	SecretCacheTTL    time.Duration

	WebPort int // local web form
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	store := pkgconfig.GetEnv("CREDENTIAL_STORE", "file")

	return &Config{
		ServiceName: pkgconfig.GetEnv("SERVICE_NAME", "repurposectl"),
		Env:         pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:    pkgconfig.GetEnv("LOG_LEVEL", "warn"),

		BaseURL:     pkgconfig.GetEnv("REPURPOSE_BASE_URL", "http://127.0.0.1:8000"),
		HTTPTimeout: pkgconfig.GetEnvDuration("HTTP_TIMEOUT", 0),
		Targets:     pkgconfig.GetEnvList("REPURPOSE_TARGETS", []string{"twitter", "linkedin"}),
		Variations:  pkgconfig.GetEnvInt("REPURPOSE_VARIATIONS", 0),
		Strict:      pkgconfig.GetEnvBool("REPURPOSE_STRICT", false),

		TokenKey:        pkgconfig.GetEnv("REPURPOSE_TOKEN_KEY", "token"),
		CredentialStore: store,
		CredentialPath:  pkgconfig.GetEnv("CREDENTIAL_PATH", DefaultCredentialPath(store)),
		RedisAddr:       pkgconfig.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:       pkgconfig.GetEnv("REDIS_PASS", ""),

		CredentialsSecret: pkgconfig.GetEnv("CREDENTIALS_SECRET", ""),
		AWSRegion:         pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
		SecretCacheTTL:    pkgconfig.GetEnvDuration("SECRET_CACHE_TTL", 15*time.Minute),

		WebPort: pkgconfig.GetEnvInt("WEB_PORT", 8787),
	}
}

// DefaultCredentialPath returns the per-user location for file and sqlite stores.
func DefaultCredentialPath(store string) string {
	name := "session.json"
	if store == "sqlite" {
		name = "session.db"
	}
	return filepath.Join(userConfigDir(), "repurposectl", name)
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=24h"`

	Backend BackendConfig
	Session SessionConfig
	Tokens  TokenConfig
	Chat    ChatConfig
	Images  ImageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	URL          string        `env:"BACKEND_URL,           default=https://chulengan0209.pythonanywhere.com/"`
	ClientID     string        `env:"BACKEND_CLIENT_ID"`
	ClientSecret string        `env:"BACKEND_CLIENT_SECRET"`
	Timeout      time.Duration `env:"BACKEND_TIMEOUT,       default=15s"`
}

type SessionConfig struct {
	OnboardingDelay    time.Duration `env:"ONBOARDING_DELAY,      default=100ms"`
	ClearTokenOnLogout bool          `env:"CLEAR_TOKEN_ON_LOGOUT, default=false"`
}

// TokenConfig selects where access tokens live: "memory" or "redis" for the
// gateway, "file" for the terminal client.
type TokenConfig struct {
	Store string        `env:"TOKEN_STORE, default=memory"`
	File  string        `env:"TOKEN_FILE"`
	Key   string        `env:"TOKEN_KEY"`
	TTL   time.Duration `env:"TOKEN_TTL,   default=0s"`
}

// ChatConfig selects the realtime store: "redis" or "mongo". An empty
// AllowedOrigins accepts chat feeds from any origin.
type ChatConfig struct {
	Backend        string   `env:"CHAT_BACKEND,         default=redis"`
	Workers        int      `env:"CHAT_WORKERS,         default=8"`
	AllowedOrigins []string `env:"CHAT_ALLOWED_ORIGINS"`
}

type ImageConfig struct {
	UploadURL    string `env:"IMAGE_UPLOAD_URL,    default=https://api.cloudinary.com/v1_1/dauhkaecb/image/upload"`
	UploadPreset string `env:"IMAGE_UPLOAD_PRESET, default=unsigned_preset"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=apartment_client"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether human-friendly log output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TokenTTL is how long a Redis token slot outlives its last write. It follows
// the session lifetime unless TOKEN_TTL overrides it.
func (c *Config) TokenTTL() time.Duration {
	if c.Tokens.TTL > 0 {
		return c.Tokens.TTL
	}
	return c.SessionTTL
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadWith reads configuration from lookuper instead of the process
// environment.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultJWTSecret is the insecure development secret. Production refuses it.
const DefaultJWTSecret = "pass_default_if_not_set"

type Config struct {
	Env             string
	AppPort         string
	LogLevel        string
	DBDriver        string
	DSN             string
	DBConnectTries  uint
	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	BootstrapEmail  string
	BootstrapPasswd string
}

// IsProduction reports whether insecure defaults must be rejected.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads an optional env file and then the process environment.
// An empty envFile means ".env" in the working directory.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Str("file", envFile).Msg("env file not found, using system environment variables")
	} else {
		log.Debug().Str("file", envFile).Msg("env file loaded")
	}

	cfg := Config{
		Env:             envOr("APP_ENV", "development"),
		AppPort:         envOr("APP_PORT", "8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		DBDriver:        strings.ToLower(envOr("DB_DRIVER", "postgres")),
		DSN:             os.Getenv("DATABASE_DSN"),
		JWTSecret:       envOr("JWT_SECRET_KEY", DefaultJWTSecret),
		JWTAlgorithm:    strings.ToUpper(envOr("JWT_ALGORITHM", "HS256")),
		BootstrapEmail:  strings.ToLower(strings.TrimSpace(os.Getenv("PGN_ADMIN_EMAIL"))),
		BootstrapPasswd: os.Getenv("PGN_ADMIN_PASSWORD"),
	}

	ttl, err := envInt("ACCESS_TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.AccessTokenTTL = time.Duration(ttl) * time.Minute

	if cfg.BcryptCost, err = envInt("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}

	tries, err := envInt("DB_CONNECT_ATTEMPTS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.DBConnectTries = uint(max(tries, 1))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == DefaultJWTSecret {
		log.Warn().Msg("JWT_SECRET_KEY not set, using the insecure development secret")
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.DSN == "" {
		return errors.New("DATABASE_DSN not set in environment")
	}
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET_KEY must be set in production")
	}
	return nil
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

type Config struct {
	Addr           string
	DBPath         string
	LogLevel       string
	JWTSecret      string
	JWTIssuer      string
	SessionTTL     time.Duration
	CORSOrigins    []string
	MaxUploadBytes int64
	AdminUsername  string
	AdminPassword  string
	CookieSecure   bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		DBPath:         envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      envOr("JWT_ISSUER", "flashdeck"),
		SessionTTL:     envDurationOr("SESSION_TTL", 7*24*time.Hour),
		CORSOrigins:    envListOr("CORS_ORIGINS", nil),
		MaxUploadBytes: int64(envIntOr("MAX_UPLOAD_BYTES", 5<<20)),
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		CookieSecure:   envBoolOr("COOKIE_SECURE", false),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.JWTIssuer == "" {
		return fmt.Errorf("JWT_ISSUER cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// ClientConfig configures the study command.
type ClientConfig struct {
	BaseURL   string
	Token     string
	TokenFile string
	Timeout   time.Duration
}

// LoadClient reads the study client settings. The token comes from
// FLASHDECK_TOKEN, or from the file written by "study login".
func LoadClient() ClientConfig {
	_ = godotenv.Load()

	cfg := ClientConfig{
		BaseURL:   strings.TrimRight(envOr("FLASHDECK_URL", "http://localhost:8080"), "/"),
		Token:     os.Getenv("FLASHDECK_TOKEN"),
		TokenFile: envOr("FLASHDECK_TOKEN_FILE", defaultTokenFile()),
		Timeout:   envDurationOr("FLASHDECK_TIMEOUT", 15*time.Second),
	}
	if cfg.Token == "" && cfg.TokenFile != "" {
		if b, err := os.ReadFile(cfg.TokenFile); err == nil {
			cfg.Token = strings.TrimSpace(string(b))
		}
	}
	return cfg
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "flashdeck", "token")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

// envListOr splits a comma separated value, dropping empty entries.
func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS      CORSConfig
	Log       LogConfig
	Session   SessionConfig
	Seed      SeedConfig
	Reference ReferenceConfig
	Listing   ListingConfig
	Export    ExportConfig
	Metrics   MetricsConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SessionConfig signs the institution/role selection token.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SeedConfig points at the reference data file. Empty uses the embedded default.
type SeedConfig struct {
	File string
}

// ReferenceConfig shapes generated reference codes.
type ReferenceConfig struct {
	Prefix string
	Digits int
}

// ListingConfig tunes admin listing pagination.
type ListingConfig struct {
	DefaultPageSize int
}

// ExportConfig toggles CSV/PDF export.
type ExportConfig struct {
	Enabled bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Session = SessionConfig{
		Secret: v.GetString("SESSION_SECRET"),
		TTL:    parseDuration(v.GetString("SESSION_TTL"), 8*time.Hour),
		Issuer: v.GetString("SESSION_ISSUER"),
	}

	cfg.Seed = SeedConfig{File: strings.TrimSpace(v.GetString("SEED_FILE"))}

	digits := v.GetInt("REFERENCE_DIGITS")
	if digits <= 0 {
		digits = 6
	}
	prefix := strings.ToUpper(strings.TrimSpace(v.GetString("REFERENCE_PREFIX")))
	if prefix == "" {
		prefix = "GRV"
	}
	cfg.Reference = ReferenceConfig{Prefix: prefix, Digits: digits}

	pageSize := v.GetInt("DEFAULT_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.Listing = ListingConfig{DefaultPageSize: pageSize}

	cfg.Export = ExportConfig{Enabled: v.GetBool("ENABLE_EXPORT")}
	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "8h")
	v.SetDefault("SESSION_ISSUER", "grievance-api")

	v.SetDefault("SEED_FILE", "")
	v.SetDefault("REFERENCE_PREFIX", "GRV")
	v.SetDefault("REFERENCE_DIGITS", 6)
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)

	v.SetDefault("ENABLE_EXPORT", true)
	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

package config

import (
	"errors"
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

	Upstream UpstreamConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Sessions SessionConfig
	Receipts ReceiptConfig
	Ledger   LedgerConfig
}

// UpstreamConfig points the gateway at the legacy school backend.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig governs caching of upstream reference data.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// SessionConfig tunes the in-memory fee session store.
type SessionConfig struct {
	TTL time.Duration
}

// ReceiptConfig carries the letterhead printed on fee vouchers.
type ReceiptConfig struct {
	SchoolName  string
	AddressLine string
	PhoneLine   string
	FooterNote  string
}

// LedgerConfig selects delete semantics against the upstream store.
// When ConfirmedDelete is false the roster is updated optimistically,
// matching the behaviour of the legacy fee page.
type LedgerConfig struct {
	ConfirmedDelete bool
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("ENABLE_CATALOG_CACHE"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Sessions = SessionConfig{
		TTL: parseDuration(v.GetString("SESSION_TTL"), 2*time.Hour),
	}

	cfg.Receipts = ReceiptConfig{
		SchoolName:  v.GetString("RECEIPT_SCHOOL_NAME"),
		AddressLine: v.GetString("RECEIPT_ADDRESS_LINE"),
		PhoneLine:   v.GetString("RECEIPT_PHONE_LINE"),
		FooterNote:  v.GetString("RECEIPT_FOOTER_NOTE"),
	}

	cfg.Ledger = LedgerConfig{
		ConfirmedDelete: v.GetBool("FEE_CONFIRMED_DELETE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3000/api/v1")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CATALOG_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")

	v.SetDefault("SESSION_TTL", "2h")

	v.SetDefault("RECEIPT_SCHOOL_NAME", "GCEC")
	v.SetDefault("RECEIPT_ADDRESS_LINE", "Taungzalat, Kalaymyo")
	v.SetDefault("RECEIPT_PHONE_LINE", "09457373234, 09959053881, 09793322469")
	v.SetDefault("RECEIPT_FOOTER_NOTE", "--- Thank You ---")

	v.SetDefault("FEE_CONFIRMED_DELETE", false)
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

package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fraatlas/pkg/ingest"
)

type AppConfig struct {
	Port           string
	DBDriver       string // sqlite | postgres
	DBPath         string
	DBDSN          string
	LogLevel       string
	LogMode        string
	CacheBackend   string // memory | redis | none
	RedisURL       string
	CacheTTL       time.Duration
	CategoryPolicy ingest.CategoryPolicy
	RequireAuth    bool
	DevTokenSecret string
	CORSOrigins    []string
	MaxUploadMB    int
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "fra_atlas.db")
	v.SetDefault("db_dsn", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_mode", "prod")
	v.SetDefault("cache_backend", "memory")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("atlas_category_policy", string(ingest.PolicyUnknown))
	v.SetDefault("require_auth", false)
	v.SetDefault("dev_token_secret", "dev-secret")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("max_upload_mb", 20)
}

// Load reads .env, then environment variables, then an optional atlas.yaml
// in the working directory. Environment wins over the file.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] no .env file loaded: %v", err)
	}

	v := viper.New()
	defaults(v)
	v.SetConfigName("atlas")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read atlas.yaml: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (AppConfig, error) {
	policy, err := ingest.ParseCategoryPolicy(v.GetString("atlas_category_policy"))
	if err != nil {
		return AppConfig{}, err
	}
	cfg := AppConfig{
		Port:           v.GetString("port"),
		DBDriver:       strings.ToLower(v.GetString("db_driver")),
		DBPath:         v.GetString("db_path"),
		DBDSN:          v.GetString("db_dsn"),
		LogLevel:       v.GetString("log_level"),
		LogMode:        v.GetString("log_mode"),
		CacheBackend:   strings.ToLower(v.GetString("cache_backend")),
		RedisURL:       v.GetString("redis_url"),
		CacheTTL:       v.GetDuration("cache_ttl"),
		CategoryPolicy: policy,
		RequireAuth:    v.GetBool("require_auth"),
		DevTokenSecret: v.GetString("dev_token_secret"),
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		MaxUploadMB:    v.GetInt("max_upload_mb"),
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return AppConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "postgres" && cfg.DBDSN == "" {
		return AppConfig{}, errors.New("DB_DSN is required for postgres")
	}
	switch cfg.CacheBackend {
	case "memory", "redis", "none":
	default:
		return AppConfig{}, fmt.Errorf("unsupported CACHE_BACKEND %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

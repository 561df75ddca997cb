package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraatlas/pkg/ingest"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	defaults(v)
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, ingest.PolicyUnknown, cfg.CategoryPolicy)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.RequireAuth)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ATLAS_CATEGORY_POLICY", "random")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ingest.PolicyRandom, cfg.CategoryPolicy)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"db_driver":             "mysql",
		"cache_backend":         "memcached",
		"atlas_category_policy": "guess",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			defaults(v)
			v.Set(key, val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}

	v := viper.New()
	defaults(v)
	v.Set("db_driver", "postgres")
	_, err := fromViper(v)
	assert.ErrorContains(t, err, "DB_DSN")
}

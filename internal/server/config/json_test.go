package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_AllFields(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"http_address":     "127.0.0.1:9000",
		"store_kind":       "redis",
		"database_dsn":     "postgres://x",
		"redis_addr":       "redis:6379",
		"redis_username":   "default",
		"redis_password":   "pw",
		"redis_db":         2,
		"redis_prefix":     "auth:",
		"jwt_secret":       "s",
		"jwt_issuer":       "iss",
		"jwt_audience":     "aud",
		"access_token_ttl": "1h",
		"store_timeout":    int64(2 * time.Second),
		"bcrypt_cost":      12,
		"default_roles":    []string{"user"},
		"log_level":        "debug",
		"log_format":       "text",
		"gin_mode":         "debug",
		"cors_origins":     []string{"http://localhost:3000"},
		"shutdown_timeout": "30s",
	})

	got := defaults()
	require.NoError(t, parseJson(got, path))

	want := defaults()
	want.HTTPAddress = "127.0.0.1:9000"
	want.StoreKind = StoreRedis
	want.DatabaseDSN = "postgres://x"
	want.RedisAddr = "redis:6379"
	want.RedisUsername = "default"
	want.RedisPassword = "pw"
	want.RedisDB = 2
	want.RedisPrefix = "auth:"
	want.JWTSecret = "s"
	want.JWTIssuer = "iss"
	want.JWTAudience = "aud"
	want.AccessTokenTTL = time.Hour
	want.StoreTimeout = 2 * time.Second
	want.BcryptCost = 12
	want.DefaultRoles = []string{"user"}
	want.LogLevel = "debug"
	want.LogFormat = "text"
	want.GinMode = "debug"
	want.CORSOrigins = []string{"http://localhost:3000"}
	want.ShutdownTimeout = 30 * time.Second

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_parseJson_KeepsUnsetFields(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{"jwt_issuer": "iss"})

	got := defaults()
	got.JWTSecret = "from-env"
	require.NoError(t, parseJson(got, path))

	assert.Equal(t, "iss", got.JWTIssuer)
	assert.Equal(t, "from-env", got.JWTSecret)
	assert.Equal(t, 3*time.Hour, got.AccessTokenTTL)
}

func Test_parseJson_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := parseJson(defaults(), filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		assert.Error(t, parseJson(defaults(), path))
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeTempJSON(t, "", "", map[string]any{"access_token_ttl": "soon"})
		assert.Error(t, parseJson(defaults(), path))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.NoError(t, parseJson(defaults(), ""))
	})
}

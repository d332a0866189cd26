package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddress     = "HTTP_ADDRESS"
	EnvStoreKind       = "STORE_KIND"
	EnvDatabaseDSN     = "DATABASE_DSN"
	EnvRedisAddr       = "REDIS_ADDR"
	EnvRedisUsername   = "REDIS_USERNAME"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvRedisDB         = "REDIS_DB"
	EnvRedisPrefix     = "REDIS_PREFIX"
	EnvJWTSecret       = "JWT_SECRET"
	EnvJWTIssuer       = "JWT_VALID_ISSUER"
	EnvJWTAudience     = "JWT_VALID_AUDIENCE"
	EnvAccessTokenTTL  = "ACCESS_TOKEN_TTL"
	EnvStoreTimeout    = "STORE_TIMEOUT"
	EnvBcryptCost      = "BCRYPT_COST"
	EnvDefaultRoles    = "DEFAULT_ROLES"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvGinMode         = "GIN_MODE"
	EnvCORSOrigins     = "CORS_ORIGINS"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvFile            = "ENV_FILE"
)

// parseEnv loads the .env file, if any, into the process environment and
// then copies every set variable into config. Variables already present in
// the environment are not overwritten by the file.
func parseEnv(config *Config) error {
	if v, ok := os.LookupEnv(EnvFile); ok {
		config.EnvFile = v
	}
	if config.EnvFile != "" {
		if err := godotenv.Load(config.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", config.EnvFile, err)
		}
	}

	setString(&config.HTTPAddress, EnvHTTPAddress)
	setString(&config.StoreKind, EnvStoreKind)
	setString(&config.DatabaseDSN, EnvDatabaseDSN)
	setString(&config.RedisAddr, EnvRedisAddr)
	setString(&config.RedisUsername, EnvRedisUsername)
	setString(&config.RedisPassword, EnvRedisPassword)
	setString(&config.RedisPrefix, EnvRedisPrefix)
	setString(&config.JWTSecret, EnvJWTSecret)
	setString(&config.JWTIssuer, EnvJWTIssuer)
	setString(&config.JWTAudience, EnvJWTAudience)
	setString(&config.LogLevel, EnvLogLevel)
	setString(&config.LogFormat, EnvLogFormat)
	setString(&config.GinMode, EnvGinMode)
	setList(&config.DefaultRoles, EnvDefaultRoles)
	setList(&config.CORSOrigins, EnvCORSOrigins)

	if err := setInt(&config.RedisDB, EnvRedisDB); err != nil {
		return err
	}
	if err := setInt(&config.BcryptCost, EnvBcryptCost); err != nil {
		return err
	}
	if err := setDuration(&config.AccessTokenTTL, EnvAccessTokenTTL); err != nil {
		return err
	}
	if err := setDuration(&config.StoreTimeout, EnvStoreTimeout); err != nil {
		return err
	}
	return setDuration(&config.ShutdownTimeout, EnvShutdownTimeout)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = splitList(v)
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

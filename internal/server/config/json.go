package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields accept "3h" as well as integer nanoseconds. Fields left out of the
// file keep the values set by earlier layers.
type JsonConfig struct {
	HTTPAddress     string          `json:"http_address"`
	StoreKind       string          `json:"store_kind"`
	DatabaseDSN     string          `json:"database_dsn"`
	RedisAddr       string          `json:"redis_addr"`
	RedisUsername   string          `json:"redis_username"`
	RedisPassword   string          `json:"redis_password"`
	RedisDB         *int            `json:"redis_db"`
	RedisPrefix     string          `json:"redis_prefix"`
	JWTSecret       string          `json:"jwt_secret"`
	JWTIssuer       string          `json:"jwt_issuer"`
	JWTAudience     string          `json:"jwt_audience"`
	AccessTokenTTL  *timex.Duration `json:"access_token_ttl"`
	StoreTimeout    *timex.Duration `json:"store_timeout"`
	BcryptCost      *int            `json:"bcrypt_cost"`
	DefaultRoles    []string        `json:"default_roles"`
	LogLevel        string          `json:"log_level"`
	LogFormat       string          `json:"log_format"`
	GinMode         string          `json:"gin_mode"`
	CORSOrigins     []string        `json:"cors_origins"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays config with the JSON file at path. An empty path loads
// nothing.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	overlay(&config.HTTPAddress, c.HTTPAddress)
	overlay(&config.StoreKind, c.StoreKind)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.RedisAddr, c.RedisAddr)
	overlay(&config.RedisUsername, c.RedisUsername)
	overlay(&config.RedisPassword, c.RedisPassword)
	overlay(&config.RedisPrefix, c.RedisPrefix)
	overlay(&config.JWTSecret, c.JWTSecret)
	overlay(&config.JWTIssuer, c.JWTIssuer)
	overlay(&config.JWTAudience, c.JWTAudience)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.GinMode, c.GinMode)

	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.StoreTimeout != nil {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.DefaultRoles != nil {
		config.DefaultRoles = c.DefaultRoles
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}

	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

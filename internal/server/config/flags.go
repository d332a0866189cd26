package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-k string     store kind: postgres, redis or memory
//	-d string     PostgreSQL DSN
//	-r string     Redis address
//	-s string     JWT HMAC secret
//	-i string     JWT issuer
//	-u string     JWT audience
//	-t duration   access token TTL (e.g. "3h")
//	-l string     log level
//	-roles string comma separated roles given to new users
//
// Only the flags above are taken from args, so the JSON config flags can
// share the same argument list.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-d", "-r", "-s", "-i", "-u", "-t", "-l", "-roles"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddress, "a", config.HTTPAddress, "address and port to run server")
	fs.StringVar(&config.StoreKind, "k", config.StoreKind, "user store kind")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret key")
	fs.StringVar(&config.JWTIssuer, "i", config.JWTIssuer, "JWT issuer")
	fs.StringVar(&config.JWTAudience, "u", config.JWTAudience, "JWT audience")
	fs.DurationVar(&config.AccessTokenTTL, "t", config.AccessTokenTTL, "access token ttl")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	roles := fs.String("roles", strings.Join(config.DefaultRoles, ","), "default roles for new users")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.DefaultRoles = splitList(*roles)
	return nil
}

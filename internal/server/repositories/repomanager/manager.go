// Package repomanager selects and owns the user store backend: it opens
// connections, runs schema migrations and releases resources on Close.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// Supported store kinds.
const (
	KindPostgres = "postgres"
	KindRedis    = "redis"
	KindMemory   = "memory"
)

type RepositoryManager interface {
	Users() users.Repository
	Close() error
}

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// Options selects a backend and carries its connection settings.
type Options struct {
	Kind        string
	DatabaseDSN string
	Redis       RedisOptions
}

// New builds the RepositoryManager for opts.Kind.
func New(ctx context.Context, opts Options, h cryptox.PasswordHasher) (RepositoryManager, error) {
	switch opts.Kind {
	case KindPostgres:
		return NewPostgresRepositoryManager(ctx, opts.DatabaseDSN, h)
	case KindRedis:
		return NewRedisRepositoryManager(ctx, opts.Redis, h)
	case KindMemory:
		return NewMemoryRepositoryManager(h), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
}

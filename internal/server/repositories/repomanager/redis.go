package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/redis/go-redis/v9"
)

// RedisRepositoryManager owns the Redis client behind the Redis user store.
type RedisRepositoryManager struct {
	client *redis.Client
	users  *users.RedisRepository
}

func NewRedisRepositoryManager(ctx context.Context, opts RedisOptions, h cryptox.PasswordHasher) (*RedisRepositoryManager, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisRepositoryManager{
		client: client,
		users:  users.NewRedisRepository(client, opts.Prefix, h),
	}, nil
}

func (m *RedisRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *RedisRepositoryManager) Close() error {
	return m.client.Close()
}

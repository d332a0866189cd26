package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "gophauth:"

// createScript claims both index keys and writes the user atomically.
//
//	KEYS: email index, username index, user hash, roles list
//	ARGV: id, username, email, password_hash, security_stamp, created_at, roles...
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 'email'
end
if redis.call('EXISTS', KEYS[2]) == 1 then
  return 'username'
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[1])
redis.call('HSET', KEYS[3],
  'id', ARGV[1],
  'username', ARGV[2],
  'email', ARGV[3],
  'password_hash', ARGV[4],
  'security_stamp', ARGV[5],
  'created_at', ARGV[6])
for i = 7, #ARGV do
  redis.call('RPUSH', KEYS[4], ARGV[i])
end
return 'ok'
`)

// RedisRepository stores users in Redis:
//
//	<prefix>user:<id>            hash with the record fields
//	<prefix>roles:<id>           list of role names in assignment order
//	<prefix>username:<normalized> -> id
//	<prefix>email:<normalized>    -> id
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
	hasher cryptox.PasswordHasher
}

func NewRedisRepository(client redis.UniversalClient, prefix string, h cryptox.PasswordHasher) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix, hasher: h}
}

func (r *RedisRepository) userKey(id string) string       { return r.prefix + "user:" + id }
func (r *RedisRepository) rolesKey(id string) string      { return r.prefix + "roles:" + id }
func (r *RedisRepository) usernameKey(name string) string { return r.prefix + "username:" + Normalize(name) }
func (r *RedisRepository) emailKey(email string) string   { return r.prefix + "email:" + Normalize(email) }

func (r *RedisRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findByIndex(ctx, r.usernameKey(username))
}

func (r *RedisRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findByIndex(ctx, r.emailKey(email))
}

func (r *RedisRepository) findByIndex(ctx context.Context, indexKey string) (*models.User, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	fields, err := r.client.HGetAll(ctx, r.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrorNotFound
	}

	user := &models.User{
		ID:            fields["id"],
		UserName:      fields["username"],
		Email:         fields["email"],
		PasswordHash:  fields["password_hash"],
		SecurityStamp: fields["security_stamp"],
	}
	if raw := fields["created_at"]; raw != "" {
		if user.CreatedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("corrupt created_at for user %s: %w", id, err)
		}
	}

	return user, nil
}

func (r *RedisRepository) VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error) {
	return verifyPassword(r.hasher, user, password)
}

func (r *RedisRepository) GetRoles(ctx context.Context, user *models.User) ([]string, error) {
	roles, err := r.client.LRange(ctx, r.rolesKey(user.ID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return roles, nil
}

func (r *RedisRepository) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.PasswordHash = hash
	u.Roles = uniqueRoles(u.Roles)
	u.CreatedAt = time.Now().UTC()

	keys := []string{r.emailKey(u.Email), r.usernameKey(u.UserName), r.userKey(u.ID), r.rolesKey(u.ID)}
	args := []any{u.ID, u.UserName, u.Email, u.PasswordHash, u.SecurityStamp, u.CreatedAt.Format(time.RFC3339Nano)}
	for _, role := range u.Roles {
		args = append(args, role)
	}

	res, err := createScript.Run(ctx, r.client, keys, args...).Text()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	switch res {
	case "ok":
		return &u, nil
	case "email":
		return nil, common.ErrDuplicateEmail
	case "username":
		return nil, common.ErrDuplicateUsername
	default:
		return nil, fmt.Errorf("unexpected create result %q", res)
	}
}

package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Data is lost on restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	hasher     cryptox.PasswordHasher
	byID       map[string]models.User
	byUsername map[string]string
	byEmail    map[string]string
}

func NewMemoryRepository(h cryptox.PasswordHasher) *MemoryRepository {
	return &MemoryRepository{
		hasher:     h,
		byID:       make(map[string]models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, r.byUsername, Normalize(username))
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, r.byEmail, Normalize(email))
}

func (r *MemoryRepository) find(ctx context.Context, index map[string]string, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return cloneUser(u), nil
}

func (r *MemoryRepository) VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error) {
	return verifyPassword(r.hasher, user, password)
}

func (r *MemoryRepository) GetRoles(ctx context.Context, user *models.User) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]string(nil), u.Roles...), nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := cloneUser(*user)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.PasswordHash = hash
	u.Roles = uniqueRoles(u.Roles)
	u.CreatedAt = time.Now().UTC()

	email, username := Normalize(u.Email), Normalize(u.UserName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	if _, ok := r.byUsername[username]; ok {
		return nil, common.ErrDuplicateUsername
	}

	r.byID[u.ID] = *u
	r.byEmail[email] = u.ID
	r.byUsername[username] = u.ID

	return cloneUser(*u), nil
}

func cloneUser(u models.User) *models.User {
	u.Roles = append([]string(nil), u.Roles...)
	return &u
}

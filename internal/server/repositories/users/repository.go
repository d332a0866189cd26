// Package users contains the user store: the Repository contract consumed by
// the login and registration flows, and its Postgres, Redis and in-memory
// implementations.
//
// All implementations share the same rules:
//   - usernames and emails are unique case-insensitively (see Normalize);
//   - Create hashes the plaintext password itself and never stores it;
//   - Create is the final arbiter of uniqueness and reports a violation as
//     common.ErrDuplicateEmail or common.ErrDuplicateUsername;
//   - lookups of unknown users return common.ErrorNotFound.
package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error)
	GetRoles(ctx context.Context, user *models.User) ([]string, error)
	Create(ctx context.Context, user *models.User, password string) (*models.User, error)
}

// Normalize returns the lookup key for a username or email.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// uniqueRoles drops empty and repeated role names, keeping first occurrence order.
func uniqueRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func verifyPassword(h cryptox.PasswordHasher, user *models.User, password string) (bool, error) {
	if user == nil || user.PasswordHash == "" {
		return false, nil
	}
	return h.Compare(user.PasswordHash, password)
}

package repomanager

import (
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager(h cryptox.PasswordHasher) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository(h)}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}

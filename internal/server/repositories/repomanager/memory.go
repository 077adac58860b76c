package repomanager

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/server/repositories/connections"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data does not
// survive a restart.
type MemoryRepositoryManager struct {
	users       *users.MemoryRepository
	connections *connections.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	u := users.NewMemoryRepository()
	return &MemoryRepositoryManager{
		users:       u,
		connections: connections.NewMemoryRepository(u),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Connections() connections.Repository { return m.connections }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }

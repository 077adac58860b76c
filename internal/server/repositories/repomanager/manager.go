// Package repomanager wires a storage backend into the repositories the
// services depend on and owns its lifecycle (schema setup, health, close).
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/server/repositories/connections"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/users"
)

type RepositoryManager interface {
	// RunMigrations brings the backend schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Connections() connections.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

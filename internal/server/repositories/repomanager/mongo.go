package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/connections"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepositoryManager vends MongoDB-backed repositories. Uniqueness of
// the unordered pair rests on the pair_key index created by RunMigrations.
type MongoRepositoryManager struct {
	client      *mongo.Client
	db          *mongo.Database
	users       *users.MongoRepository
	connections *connections.MongoRepository
}

// ConnectMongo dials uri and verifies the primary answers.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w: %w", common.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w: %w", common.ErrUnavailable, err)
	}
	return NewMongoRepositoryManager(client, database), nil
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	db := client.Database(database)
	u := users.NewMongoRepository(db)
	return &MongoRepositoryManager{
		client:      client,
		db:          db,
		users:       u,
		connections: connections.NewMongoRepository(db, u),
	}
}

// RunMigrations creates the indexes both collections rely on.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := users.EnsureIndexes(ctx, m.db); err != nil {
		return err
	}
	return connections.EnsureIndexes(ctx, m.db)
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Connections() connections.Repository {
	return m.connections
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/config"
	"github.com/dmitrijs2005/devmatch/internal/server/health"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devmatch/internal/server/services"
	"github.com/dmitrijs2005/devmatch/internal/server/storage"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/devmatch/internal/server/grpc"
)

var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	connectMongo = func(ctx context.Context, uri, database string) (repomanager.RepositoryManager, error) {
		return repomanager.ConnectMongo(ctx, uri, database)
	}
	newPictureStore = func(ctx context.Context, s storage.Settings) (services.PictureStore, error) {
		return storage.NewS3Presigner(ctx, s)
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	grpc    *gs.GRPCServer
	health  *health.Server
}

func openStore(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.StoragePostgres:
		return openPostgres(ctx, c.DatabaseDSN)
	case config.StorageMongo:
		return connectMongo(ctx, c.MongoURI, c.MongoDatabase)
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// NewApp connects to the configured store, brings its schema up to date and
// builds the services. Picture storage is optional: without a bucket the
// upload endpoint reports Unavailable.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, err
	}

	m, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var pictures services.PictureStore
	if c.S3Bucket != "" {
		pictures, err = newPictureStore(ctx, storage.Settings{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Expiry:       c.PresignExpiry,
		})
		if err != nil {
			_ = m.Close(ctx)
			return nil, fmt.Errorf("picture storage: %w", err)
		}
	}

	secret := []byte(c.SecretKey)
	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger,
		services.NewAuthService(m, secret, c.AccessTokenValidityDuration, logger),
		services.NewConnectionService(m, pictures, logger),
		services.NewFeedService(m, pictures, logger),
		services.NewProfileService(m, pictures, logger),
	)

	return &App{
		config:  c,
		logger:  logger,
		manager: m,
		grpc:    grpcServer,
		health:  health.NewServer(c.HealthAddr, m, logger),
	}, nil
}

// Run serves gRPC and the health endpoint until ctx is cancelled, a signal
// arrives or one of the servers fails. The store is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(gctx) })
	g.Go(func() error { return app.health.Run(gctx) })
	err := g.Wait()

	if cerr := app.manager.Close(context.Background()); cerr != nil {
		app.logger.Error(ctx, "closing storage", "error", cerr)
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}

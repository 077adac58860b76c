// Package grpc exposes the devmatch services over gRPC with a JSON codec.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/devmatch/internal/api"
	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type IdentityService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type ConnectionService interface {
	Connect(ctx context.Context, fromUserID, toUserID string, status models.ConnectionStatus) (*models.ConnectionRequest, error)
	Review(ctx context.Context, requestID, actingUserID string, decision models.ConnectionStatus) (*models.ConnectionRequest, error)
	ListReceived(ctx context.Context, userID string, status models.ConnectionStatus, page pagination.Page) (*models.RequestPage, error)
	ListSent(ctx context.Context, userID string, status models.ConnectionStatus, page pagination.Page) (*models.RequestPage, error)
	ListConnections(ctx context.Context, userID string, page pagination.Page) (*models.RequestPage, error)
	Status(ctx context.Context, viewerID, otherID string) (*models.Relation, error)
}

type FeedService interface {
	Feed(ctx context.Context, viewerID string, filter services.FeedFilter, page pagination.Page) (*models.UserPage, error)
}

type ProfileService interface {
	View(ctx context.Context, userID string) (*models.UserMini, error)
	Update(ctx context.Context, actorID, targetID string, in services.ProfileInput) (*models.UserMini, error)
	PictureUploadURL(ctx context.Context, userID string) (string, string, error)
	Delete(ctx context.Context, actorID, targetID string) error
}

type GRPCServer struct {
	address     string
	identity    IdentityService
	connections ConnectionService
	feed        FeedService
	profile     ProfileService
	health      *health.Server
	logger      logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, id IdentityService, cs ConnectionService, fs FeedService, ps ProfileService) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		identity:    id,
		connections: cs,
		feed:        fs,
		profile:     ps,
		health:      health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterMatchServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

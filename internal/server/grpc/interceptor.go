package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/api"
	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	UserIDKey    ctxKey = "userID"
	RequestIDKey ctxKey = "requestID"
)

// publicMethods are callable without an access token.
var publicMethods = map[string]bool{
	api.FullMethod(api.MethodPing):     true,
	api.FullMethod(api.MethodRegister): true,
	api.FullMethod(api.MethodLogin):    true,
	"/grpc.health.v1.Health/Check":     true,
	"/grpc.health.v1.Health/List":      true,
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, common.AccessTokenHeaderName)
	if accessToken == "" {
		return nil, toStatus(common.ErrorUnauthenticated)
	}

	userID, err := s.identity.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	ctx = context.WithValue(ctx, UserIDKey, userID)
	return handler(ctx, req)
}

// loggingInterceptor tags the call with a request id (taken from the
// caller when present) and logs its outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requestID := firstMetadata(ctx, common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "request_id", requestID, "code", code.String(), "duration", time.Since(start)}
	if err != nil {
		s.logger.Warn(ctx, "call failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "call", args...)
	}
	return resp, err
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", toStatus(common.ErrorUnauthenticated)
	}
	return userID, nil
}

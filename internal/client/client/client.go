// Package client is the gRPC client used by the devmatch CLI.
package client

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, req *api.RegisterRequest) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.User, error)
	Logout()
	LoggedIn() bool
	Connect(ctx context.Context, toUserID, status string) (*api.ConnectionRequest, error)
	Review(ctx context.Context, requestID, status string) (*api.ConnectionRequest, error)
	ListReceived(ctx context.Context, status string, page api.PageParams) (*api.RequestList, error)
	ListSent(ctx context.Context, status string, page api.PageParams) (*api.RequestList, error)
	ListConnections(ctx context.Context, page api.PageParams) (*api.RequestList, error)
	Feed(ctx context.Context, req *api.FeedRequest) (*api.UserList, error)
	Status(ctx context.Context, userID string) (*api.StatusResponse, error)
	Profile(ctx context.Context, userID string) (*api.User, error)
	UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.User, error)
	PictureUploadURL(ctx context.Context) (key, url string, err error)
	DeleteAccount(ctx context.Context) error
}

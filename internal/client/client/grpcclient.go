package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devmatch/internal/api"
	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// matchAPI is the subset of api.MatchServiceClient the client uses.
type matchAPI interface {
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error)
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.RegisterResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.LoginResponse, error)
	Connect(ctx context.Context, in *api.ConnectRequest, opts ...grpc.CallOption) (*api.ConnectionResponse, error)
	Review(ctx context.Context, in *api.ReviewRequest, opts ...grpc.CallOption) (*api.ConnectionResponse, error)
	ListReceived(ctx context.Context, in *api.ListReceivedRequest, opts ...grpc.CallOption) (*api.RequestList, error)
	ListSent(ctx context.Context, in *api.ListSentRequest, opts ...grpc.CallOption) (*api.RequestList, error)
	ListConnections(ctx context.Context, in *api.ListConnectionsRequest, opts ...grpc.CallOption) (*api.RequestList, error)
	Feed(ctx context.Context, in *api.FeedRequest, opts ...grpc.CallOption) (*api.UserList, error)
	Status(ctx context.Context, in *api.StatusRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
	GetProfile(ctx context.Context, in *api.GetProfileRequest, opts ...grpc.CallOption) (*api.ProfileResponse, error)
	UpdateProfile(ctx context.Context, in *api.UpdateProfileRequest, opts ...grpc.CallOption) (*api.ProfileResponse, error)
	PictureUploadURL(ctx context.Context, in *api.PictureUploadRequest, opts ...grpc.CallOption) (*api.PictureUploadResponse, error)
	DeleteAccount(ctx context.Context, in *api.DeleteAccountRequest, opts ...grpc.CallOption) (*api.DeleteAccountResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      matchAPI
	accessToken string
}

// withAccessToken attaches the access token and a fresh request id to the
// outgoing metadata.
func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	if len(md.Get(common.RequestIDHeaderName)) == 0 {
		md.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.accessToken), method, req, reply, cc, opts...)
}

// NewDevmatchClient dials endpointURL lazily. accessToken may be empty.
func NewDevmatchClient(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	conn, err := grpc.NewClient(c.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor))
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewMatchServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) LoggedIn() bool { return s.accessToken != "" }

func (s *GRPCClient) Logout() { s.accessToken = "" }

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &api.PingRequest{})
	return s.mapError(err)
}

func (s *GRPCClient) Register(ctx context.Context, req *api.RegisterRequest) (*api.User, error) {
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

// Login stores the returned access token for later calls.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.accessToken = resp.AccessToken
	return &resp.User, nil
}

func (s *GRPCClient) Connect(ctx context.Context, toUserID, st string) (*api.ConnectionRequest, error) {
	resp, err := s.client.Connect(ctx, &api.ConnectRequest{ToUserID: toUserID, Status: st})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Request, nil
}

func (s *GRPCClient) Review(ctx context.Context, requestID, st string) (*api.ConnectionRequest, error) {
	resp, err := s.client.Review(ctx, &api.ReviewRequest{RequestID: requestID, Status: st})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Request, nil
}

func (s *GRPCClient) ListReceived(ctx context.Context, st string, page api.PageParams) (*api.RequestList, error) {
	resp, err := s.client.ListReceived(ctx, &api.ListReceivedRequest{PageParams: page, Status: st})
	return resp, s.mapError(err)
}

func (s *GRPCClient) ListSent(ctx context.Context, st string, page api.PageParams) (*api.RequestList, error) {
	resp, err := s.client.ListSent(ctx, &api.ListSentRequest{PageParams: page, Status: st})
	return resp, s.mapError(err)
}

func (s *GRPCClient) ListConnections(ctx context.Context, page api.PageParams) (*api.RequestList, error) {
	resp, err := s.client.ListConnections(ctx, &api.ListConnectionsRequest{PageParams: page})
	return resp, s.mapError(err)
}

func (s *GRPCClient) Feed(ctx context.Context, req *api.FeedRequest) (*api.UserList, error) {
	resp, err := s.client.Feed(ctx, req)
	return resp, s.mapError(err)
}

func (s *GRPCClient) Status(ctx context.Context, userID string) (*api.StatusResponse, error) {
	resp, err := s.client.Status(ctx, &api.StatusRequest{UserID: userID})
	return resp, s.mapError(err)
}

// Profile returns userID's profile, or the caller's when userID is empty.
func (s *GRPCClient) Profile(ctx context.Context, userID string) (*api.User, error) {
	resp, err := s.client.GetProfile(ctx, &api.GetProfileRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.User, error) {
	resp, err := s.client.UpdateProfile(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) PictureUploadURL(ctx context.Context) (string, string, error) {
	resp, err := s.client.PictureUploadURL(ctx, &api.PictureUploadRequest{})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Key, resp.URL, nil
}

// DeleteAccount removes the logged-in account and drops the stored token.
func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	if _, err := s.client.DeleteAccount(ctx, &api.DeleteAccountRequest{}); err != nil {
		return s.mapError(err)
	}
	s.Logout()
	return nil
}

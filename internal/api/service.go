package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "devmatch.v1.MatchService"

// Method names, also used to build full method paths for interceptors.
const (
	MethodPing            = "Ping"
	MethodRegister        = "Register"
	MethodLogin           = "Login"
	MethodConnect         = "Connect"
	MethodReview          = "Review"
	MethodListReceived    = "ListReceived"
	MethodListSent        = "ListSent"
	MethodListConnections = "ListConnections"
	MethodFeed            = "Feed"
	MethodStatus          = "Status"
	MethodGetProfile      = "GetProfile"
	MethodUpdateProfile   = "UpdateProfile"
	MethodPictureUpload   = "PictureUploadURL"
	MethodDeleteAccount   = "DeleteAccount"
)

// FullMethod returns the gRPC path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type MatchServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Connect(context.Context, *ConnectRequest) (*ConnectionResponse, error)
	Review(context.Context, *ReviewRequest) (*ConnectionResponse, error)
	ListReceived(context.Context, *ListReceivedRequest) (*RequestList, error)
	ListSent(context.Context, *ListSentRequest) (*RequestList, error)
	ListConnections(context.Context, *ListConnectionsRequest) (*RequestList, error)
	Feed(context.Context, *FeedRequest) (*UserList, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
	PictureUploadURL(context.Context, *PictureUploadRequest) (*PictureUploadResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*DeleteAccountResponse, error)
}

func unary[Req, Resp any](method string, call func(MatchServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MatchServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(MatchServiceServer), ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, MatchServiceServer.Ping),
		unary(MethodRegister, MatchServiceServer.Register),
		unary(MethodLogin, MatchServiceServer.Login),
		unary(MethodConnect, MatchServiceServer.Connect),
		unary(MethodReview, MatchServiceServer.Review),
		unary(MethodListReceived, MatchServiceServer.ListReceived),
		unary(MethodListSent, MatchServiceServer.ListSent),
		unary(MethodListConnections, MatchServiceServer.ListConnections),
		unary(MethodFeed, MatchServiceServer.Feed),
		unary(MethodStatus, MatchServiceServer.Status),
		unary(MethodGetProfile, MatchServiceServer.GetProfile),
		unary(MethodUpdateProfile, MatchServiceServer.UpdateProfile),
		unary(MethodPictureUpload, MatchServiceServer.PictureUploadURL),
		unary(MethodDeleteAccount, MatchServiceServer.DeleteAccount),
	},
	Metadata: "devmatch/v1/match.json",
}

func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// MatchServiceClient calls the service over a connection using the JSON
// codec.
type MatchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchServiceClient(cc grpc.ClientConnInterface) *MatchServiceClient {
	return &MatchServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MatchServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *MatchServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *MatchServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *MatchServiceClient) Connect(ctx context.Context, in *ConnectRequest, opts ...grpc.CallOption) (*ConnectionResponse, error) {
	return invoke[ConnectionResponse](ctx, c.cc, MethodConnect, in, opts)
}

func (c *MatchServiceClient) Review(ctx context.Context, in *ReviewRequest, opts ...grpc.CallOption) (*ConnectionResponse, error) {
	return invoke[ConnectionResponse](ctx, c.cc, MethodReview, in, opts)
}

func (c *MatchServiceClient) ListReceived(ctx context.Context, in *ListReceivedRequest, opts ...grpc.CallOption) (*RequestList, error) {
	return invoke[RequestList](ctx, c.cc, MethodListReceived, in, opts)
}

func (c *MatchServiceClient) ListSent(ctx context.Context, in *ListSentRequest, opts ...grpc.CallOption) (*RequestList, error) {
	return invoke[RequestList](ctx, c.cc, MethodListSent, in, opts)
}

func (c *MatchServiceClient) ListConnections(ctx context.Context, in *ListConnectionsRequest, opts ...grpc.CallOption) (*RequestList, error) {
	return invoke[RequestList](ctx, c.cc, MethodListConnections, in, opts)
}

func (c *MatchServiceClient) Feed(ctx context.Context, in *FeedRequest, opts ...grpc.CallOption) (*UserList, error) {
	return invoke[UserList](ctx, c.cc, MethodFeed, in, opts)
}

func (c *MatchServiceClient) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodStatus, in, opts)
}

func (c *MatchServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *MatchServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodUpdateProfile, in, opts)
}

func (c *MatchServiceClient) PictureUploadURL(ctx context.Context, in *PictureUploadRequest, opts ...grpc.CallOption) (*PictureUploadResponse, error) {
	return invoke[PictureUploadResponse](ctx, c.cc, MethodPictureUpload, in, opts)
}

func (c *MatchServiceClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error) {
	return invoke[DeleteAccountResponse](ctx, c.cc, MethodDeleteAccount, in, opts)
}

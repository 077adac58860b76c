package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/api"
	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devmatch/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testPassword = "Sup3r$ecret"

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeIdentity{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, &fakeIdentity{}, nil, nil, nil)
	assert.Error(t, srv.Run(context.Background()))
}

// startBufconn serves a server backed by in-memory storage and returns a
// connected client.
func startBufconn(t *testing.T) (*api.MatchServiceClient, *grpc.ClientConn) {
	t.Helper()

	m := repomanager.NewMemoryRepositoryManager()
	log := logging.Nop{}
	srv := NewGRPCServer("bufconn", log,
		services.NewAuthService(m, []byte("secret"), time.Hour, log),
		services.NewConnectionService(m, nil, log),
		services.NewFeedService(m, nil, log),
		services.NewProfileService(m, nil, log),
	)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return api.NewMatchServiceClient(conn), conn
}

func registerAndLogin(t *testing.T, c *api.MatchServiceClient, name, gender string) (string, context.Context) {
	t.Helper()
	ctx := context.Background()
	reg, err := c.Register(ctx, &api.RegisterRequest{
		FirstName: name,
		LastName:  "Tester",
		Email:     name + "@example.com",
		Password:  testPassword,
		Gender:    gender,
	})
	require.NoError(t, err)

	login, err := c.Login(ctx, &api.LoginRequest{Email: name + "@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	return reg.User.ID, metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, login.AccessToken)
}

func TestServer_RoundTrip(t *testing.T) {
	c, conn := startBufconn(t)
	ctx := context.Background()

	pong, err := c.Ping(ctx, &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.Status)

	aliceID, alice := registerAndLogin(t, c, "alice", "female")
	bobID, bob := registerAndLogin(t, c, "bob", "male")
	carolID, _ := registerAndLogin(t, c, "carol", "female")

	_, err = c.Feed(ctx, &api.FeedRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	feed, err := c.Feed(alice, &api.FeedRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, feed.Total)

	sent, err := c.Connect(alice, &api.ConnectRequest{ToUserID: bobID, Status: "interested"})
	require.NoError(t, err)
	assert.Equal(t, aliceID, sent.Request.FromUserID)

	_, err = c.Connect(bob, &api.ConnectRequest{ToUserID: aliceID, Status: "interested"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = c.Connect(alice, &api.ConnectRequest{ToUserID: aliceID, Status: "interested"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Review(alice, &api.ReviewRequest{RequestID: sent.Request.ID, Status: "accepted"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	received, err := c.ListReceived(bob, &api.ListReceivedRequest{})
	require.NoError(t, err)
	require.Len(t, received.Items, 1)
	assert.Equal(t, aliceID, received.Items[0].User.ID)
	assert.EqualValues(t, 1, received.Page)
	assert.EqualValues(t, 10, received.Limit)

	_, err = c.ListReceived(bob, &api.ListReceivedRequest{PageParams: api.PageParams{Page: "abc"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	reviewed, err := c.Review(bob, &api.ReviewRequest{RequestID: sent.Request.ID, Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, "accepted", reviewed.Request.Status)

	_, err = c.Review(bob, &api.ReviewRequest{RequestID: sent.Request.ID, Status: "rejected"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	conns, err := c.ListConnections(alice, &api.ListConnectionsRequest{})
	require.NoError(t, err)
	require.Len(t, conns.Items, 1)
	assert.Equal(t, bobID, conns.Items[0].User.ID)

	st, err := c.Status(bob, &api.StatusRequest{UserID: aliceID})
	require.NoError(t, err)
	assert.Equal(t, "connected", st.State)
	assert.Equal(t, sent.Request.ID, st.RequestID)

	feed, err = c.Feed(alice, &api.FeedRequest{})
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, carolID, feed.Items[0].ID)

	out, err := c.ListSent(alice, &api.ListSentRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)

	about := "Gopher"
	prof, err := c.UpdateProfile(alice, &api.UpdateProfileRequest{About: &about})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", prof.User.About)

	_, err = c.UpdateProfile(alice, &api.UpdateProfileRequest{UserID: bobID, About: &about})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	view, err := c.GetProfile(bob, &api.GetProfileRequest{UserID: aliceID})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", view.User.About)

	_, err = c.PictureUploadURL(alice, &api.PictureUploadRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestServer_LoginFailure(t *testing.T) {
	c, _ := startBufconn(t)
	_, err := c.Login(context.Background(), &api.LoginRequest{Email: "nobody@example.com", Password: testPassword})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.Register(context.Background(), &api.RegisterRequest{FirstName: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_DeleteAccount(t *testing.T) {
	c, _ := startBufconn(t)

	aliceID, alice := registerAndLogin(t, c, "alice", "female")
	bobID, bob := registerAndLogin(t, c, "bob", "male")

	_, err := c.Connect(alice, &api.ConnectRequest{ToUserID: bobID, Status: "interested"})
	require.NoError(t, err)

	_, err = c.DeleteAccount(bob, &api.DeleteAccountRequest{UserID: aliceID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = c.DeleteAccount(alice, &api.DeleteAccountRequest{})
	require.NoError(t, err)

	_, err = c.Feed(alice, &api.FeedRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	received, err := c.ListReceived(bob, &api.ListReceivedRequest{})
	require.NoError(t, err)
	assert.Empty(t, received.Items)

	_, err = c.GetProfile(bob, &api.GetProfileRequest{UserID: aliceID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.Status(bob, &api.StatusRequest{UserID: aliceID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

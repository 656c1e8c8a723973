package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeServer struct {
	pb.UnimplementedAuthServiceServer

	lastAuth  []string
	lastLogin pb.LoginRequest
	lastReg   pb.RegisterRequest
	err       error
}

func (f *fakeServer) record(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	f.lastAuth = md.Get(common.AccessTokenHeaderName)
}

func (f *fakeServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := pb.Decode(in, &f.lastReg); err != nil {
		return nil, err
	}
	return pb.Encode(pb.IdentityResponse{ID: 7, Name: f.lastReg.Name, Email: f.lastReg.Email, Roles: f.lastReg.Roles})
}

func (f *fakeServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := pb.Decode(in, &f.lastLogin); err != nil {
		return nil, err
	}
	return pb.Encode(pb.LoginResponse{Token: "tok-" + f.lastLogin.Username})
}

func (f *fakeServer) Roles(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	f.record(ctx)
	return pb.Encode(pb.RolesResponse{Roles: []string{"Editor", "Viewer"}})
}

func (f *fakeServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return pb.Encode(pb.IdentityResponse{ID: 1, Name: "alice", Email: "alice@example.com", Roles: []string{"Admin"}})
}

func (f *fakeServer) Sample(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return pb.Encode(pb.MessageResponse{Message: "Sample : OK"})
}

func (f *fakeServer) SamplePublic(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	f.record(ctx)
	return pb.Encode(pb.MessageResponse{Message: "Sample/Public : OK"})
}

func newTestClient(t *testing.T, srv pb.AuthServiceServer) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	pb.RegisterAuthServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_LoginStoresTokenAndSendsBearer(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	ctx := context.Background()

	_, err := c.SamplePublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, srv.lastAuth)

	token, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", token)
	assert.Equal(t, "tok-alice", c.Token())
	assert.Equal(t, pb.LoginRequest{Username: "alice", Password: "pw"}, srv.lastLogin)

	msg, err := c.Sample(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sample : OK", msg)
	assert.Equal(t, []string{"Bearer tok-alice"}, srv.lastAuth)

	c.SetToken("")
	_, err = c.Roles(ctx)
	require.NoError(t, err)
	assert.Empty(t, srv.lastAuth)
}

func TestGRPCClient_Register(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)

	id, err := c.Register(context.Background(), "bob", "bob@example.com", "pw", []string{"Editor"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.ID)
	assert.Equal(t, "bob", id.Name)
	assert.Equal(t, []string{"Editor"}, id.Roles)
	assert.Equal(t, "pw", srv.lastReg.Password)
}

func TestGRPCClient_RolesAndMe(t *testing.T) {
	c := newTestClient(t, &fakeServer{})
	ctx := context.Background()

	roles, err := c.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Editor", "Viewer"}, roles)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestGRPCClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "unauthorized"), ErrUnauthorized},
		{"expired", status.Error(codes.Unauthenticated, "expired"), ErrUnauthorized},
		{"forbidden", status.Error(codes.PermissionDenied, "missing-claim"), ErrForbidden},
		{"exists", status.Error(codes.AlreadyExists, "user already exists"), ErrAlreadyExists},
		{"invalid", status.Error(codes.InvalidArgument, "validation error"), ErrInvalidInput},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeServer{err: tt.err})

			_, err := c.Me(context.Background())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGRPCClient_InternalError(t *testing.T) {
	c := newTestClient(t, &fakeServer{err: status.Error(codes.Internal, "internal error")})

	_, err := c.Sample(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "server error: internal error")
}

func TestMapError_NonStatus(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, mapError(boom))
}

func TestWithAccessToken_KeepsExistingMetadata(t *testing.T) {
	ctx := metadata.NewOutgoingContext(context.Background(), metadata.Pairs("x-request-id", "r1"))
	ctx = withAccessToken(ctx, "t")

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"r1"}, md.Get("x-request-id"))
	assert.Equal(t, []string{"Bearer t"}, md.Get(common.AccessTokenHeaderName))
}

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Identity is a user as reported by the server.
type Identity = pb.IdentityResponse

type GRPCClient struct {
	conn   *grpc.ClientConn
	client pb.AuthServiceClient

	mu          sync.RWMutex
	accessToken string
}

// NewGRPCClient does not dial; the connection is made on first use.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}

	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// SetToken sets the bearer token sent with every following call. An empty
// token stops sending the header.
func (c *GRPCClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *GRPCClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		if msg := st.Message(); msg != "" && msg != "unauthorized" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("server error: %s", st.Message())
	}
}

type unaryFn func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func call(ctx context.Context, fn unaryFn, req, resp any) error {
	in, err := pb.Encode(req)
	if err != nil {
		return err
	}

	out, err := fn(ctx, in)
	if err != nil {
		return mapError(err)
	}

	return pb.Decode(out, resp)
}

func (c *GRPCClient) Register(ctx context.Context, name, email, password string, roles []string) (*Identity, error) {
	var id Identity
	req := pb.RegisterRequest{Name: name, Email: email, Password: password, Roles: roles}
	if err := call(ctx, c.client.Register, req, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Login authenticates by name or email and keeps the returned token for
// later calls.
func (c *GRPCClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp pb.LoginResponse
	if err := call(ctx, c.client.Login, pb.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

func (c *GRPCClient) Roles(ctx context.Context) ([]string, error) {
	var resp pb.RolesResponse
	if err := call(ctx, c.client.Roles, pb.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Roles, nil
}

func (c *GRPCClient) Me(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := call(ctx, c.client.Me, pb.Empty{}, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *GRPCClient) Sample(ctx context.Context) (string, error) {
	var resp pb.MessageResponse
	if err := call(ctx, c.client.Sample, pb.Empty{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *GRPCClient) SamplePublic(ctx context.Context) (string, error) {
	var resp pb.MessageResponse
	if err := call(ctx, c.client.SamplePublic, pb.Empty{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

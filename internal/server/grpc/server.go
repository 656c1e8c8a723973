package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/authz"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
)

// Authenticator is the part of services.Authenticator the transport uses.
type Authenticator interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Identity, error)
	Login(ctx context.Context, identifier, password string) (*models.Identity, error)
	IdentityByID(ctx context.Context, id int64) (*models.Identity, error)
	AssignableRoles(ctx context.Context) ([]string, error)
}

// TokenIssuer is satisfied by *auth.Issuer.
type TokenIssuer interface {
	IssueToken(id *models.Identity) (string, error)
}

type GRPCServer struct {
	pb.UnimplementedAuthServiceServer
	address  string
	users    Authenticator
	issuer   TokenIssuer
	guard    *authz.Guard
	policies map[string]string
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, users Authenticator, issuer TokenIssuer, guard *authz.Guard) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    users,
		issuer:   issuer,
		guard:    guard,
		policies: MethodPolicies(),
	}
}

// MethodPolicies maps every AuthService method to the policy guarding it.
func MethodPolicies() map[string]string {
	return map[string]string{
		pb.MethodRegister:     authz.PolicyAnonymous,
		pb.MethodLogin:        authz.PolicyAnonymous,
		pb.MethodRoles:        authz.PolicyAnonymous,
		pb.MethodSamplePublic: authz.PolicyAnonymous,
		pb.MethodMe:           authz.PolicyAuthenticated,
		pb.MethodSample:       authz.RequireRole(adminRole).Name,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.accessTokenInterceptor))
	pb.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

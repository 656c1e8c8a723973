// Package httpapi exposes the authentication service over HTTP/JSON with
// gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/authz"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Authenticator is the part of services.Authenticator the handlers use.
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

type HTTPServer struct {
	address string
	engine  *gin.Engine
	users   Authenticator
	issuer  TokenIssuer
	guard   *authz.Guard
	logger  logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, users Authenticator, issuer TokenIssuer, guard *authz.Guard) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		address: a,
		engine:  gin.New(),
		users:   users,
		issuer:  issuer,
		guard:   guard,
		logger:  l.With("module", "http_server"),
	}
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	s.engine.Use(gin.Recovery(), requestID(), s.requestLogger())

	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.authorize(authz.PolicyAnonymous), s.register)
	authGroup.POST("/login", s.authorize(authz.PolicyAnonymous), s.login)
	authGroup.GET("/roles", s.authorize(authz.PolicyAnonymous), s.roles)
	authGroup.GET("/me", s.authorize(authz.PolicyAuthenticated), s.me)

	sample := api.Group("/sample")
	sample.GET("", s.authorize(common.AdminRoleName), s.sample)
	sample.GET("/public", s.authorize(authz.PolicyAnonymous), s.samplePublic)
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

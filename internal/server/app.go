// Package server wires configuration, storage, the authentication core
// and both transports into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/authz"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/secrets"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/store"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	grpcServer *gs.GRPCServer
	httpServer *httpapi.HTTPServer
}

// NewApp opens and migrates the database, resolves the signing key and
// builds both servers. Configuration problems surface as
// *common.ConfigError.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	hashers, err := password.DefaultSet(c.PasswordScheme)
	if err != nil {
		return nil, &common.ConfigError{Field: "password scheme", Reason: err.Error()}
	}

	key, err := secrets.LoadSigningKey(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}
	defer common.WipeByteArray(key)

	issuer, err := auth.NewIssuer(key, c.TokenLifetime, c.TokenIssuer)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewVerifier(key, c.TokenIssuer)
	if err != nil {
		return nil, err
	}

	guard := authz.NewGuard(verifier, authz.RequireRole(common.AdminRoleName))
	users, err := services.NewAuthenticator(store.NewSQLStore(db, rm), hashers, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, users, issuer, guard),
		httpServer: httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, users, issuer, guard),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

type runner interface {
	Run(ctx context.Context) error
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err.Error())
		cancelFunc()
	}
}

// Run serves gRPC and HTTP until ctx is cancelled, a signal arrives or
// either server fails, then closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", app.grpcServer)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.httpServer)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err.Error())
	}

	app.logger.Info(context.Background(), "App stopped")
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

// AuthClient is the server surface the CLI needs. *client.GRPCClient
// implements it.
type AuthClient interface {
	Register(ctx context.Context, name, email, password string, roles []string) (*client.Identity, error)
	Login(ctx context.Context, username, password string) (string, error)
	Roles(ctx context.Context) ([]string, error)
	Me(ctx context.Context) (*client.Identity, error)
	Sample(ctx context.Context) (string, error)
	SamplePublic(ctx context.Context) (string, error)
	SetToken(token string)
	Token() string
	Close() error
}

type App struct {
	client  AuthClient
	reader  *bufio.Reader
	out     io.Writer
	timeout time.Duration
}

var newGRPCClient = func(addr string) (AuthClient, error) {
	c, err := client.NewGRPCClient(addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := newGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.ServerEndpointAddr, err)
	}
	if c.Token != "" {
		apiClient.SetToken(c.Token)
	}

	return newApp(apiClient, os.Stdin, os.Stdout, c.Timeout), nil
}

func newApp(c AuthClient, in io.Reader, out io.Writer, timeout time.Duration) *App {
	return &App{client: c, reader: bufio.NewReader(in), out: out, timeout: timeout}
}

// Run starts the REPL and closes the connection when it ends.
func (a *App) Run(ctx context.Context) error {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to gophauth CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.client.Token() != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "(logged in)"
	}
	return ""
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// report prints a user-facing line for err and returns it unchanged.
func (a *App) report(err error) error {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Not authorized:", err)
	case errors.Is(err, client.ErrForbidden):
		fmt.Fprintln(a.out, "Access denied")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

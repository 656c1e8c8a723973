package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates cfg from command-line flags:
//
//	-a string   address and port of the gRPC server
//	-t string   bearer token to start with
//	-i int      request timeout in seconds
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-i"})

	fs := flag.NewFlagSet("gophauth-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer token")
	timeout := fs.Int("i", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
	return nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Roles(ctx context.Context) error
	Me(ctx context.Context) error
	Sample(ctx context.Context) error
	SamplePublic(ctx context.Context) error
	ShowToken(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is cancelled. Handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		prompt := "gophauth"
		if s := statusFn(); s != "" {
			prompt += " " + s
		}
		fmt.Fprint(w, prompt+"> ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: me, roles, sample, sample-public, token, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, roles, sample-public, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "roles":
			_ = a.Roles(ctx)
		case "me":
			_ = a.Me(ctx)
		case "sample":
			_ = a.Sample(ctx)
		case "sample-public":
			_ = a.SamplePublic(ctx)
		case "token":
			_ = a.ShowToken(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", parts[0])
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText, getPassword and getList point to the interactive input
// helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getList       = GetList
)

// Register prompts for name, email, password and requested roles, then
// creates the account.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	roles, err := getList(a.reader, "Enter roles, comma separated (empty for none)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.client.Register(ctx, name, email, string(password), roles)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Registered %s (id %d), roles: %s\n", id.Name, id.ID, formatRoles(id.Roles))
	return nil
}

// Login prompts for a user name or email and password. On success the
// token is kept for the following commands.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter user name or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.client.Login(ctx, username, string(password)); err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.SetToken("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) ShowToken(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintln(a.out, a.client.Token())
	return nil
}

func formatRoles(roles []string) string {
	if len(roles) == 0 {
		return "none"
	}
	return strings.Join(roles, ", ")
}

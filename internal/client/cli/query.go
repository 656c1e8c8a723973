package cli

import (
	"context"
	"fmt"
)

func (a *App) Roles(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	roles, err := a.client.Roles(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Assignable roles:", formatRoles(roles))
	return nil
}

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.client.Me(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "id: %d\nname: %s\nemail: %s\nroles: %s\n", id.ID, id.Name, id.Email, formatRoles(id.Roles))
	return nil
}

func (a *App) Sample(ctx context.Context) error {
	return a.message(ctx, a.client.Sample)
}

func (a *App) SamplePublic(ctx context.Context) error {
	return a.message(ctx, a.client.SamplePublic)
}

func (a *App) message(ctx context.Context, fn func(context.Context) (string, error)) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := fn(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/devmatch/internal/api"
)

// parseListArgs splits args into key=value options and up to two
// positional page/limit values.
func parseListArgs(args []string) (api.PageParams, map[string]string) {
	var page api.PageParams
	opts := map[string]string{}
	var positional []string
	for _, arg := range args {
		if k, v, ok := strings.Cut(arg, "="); ok {
			opts[k] = v
			continue
		}
		positional = append(positional, arg)
	}
	if len(positional) > 0 {
		page.Page = positional[0]
	}
	if len(positional) > 1 {
		page.Limit = positional[1]
	}
	if v, ok := opts["page"]; ok {
		page.Page = v
	}
	if v, ok := opts["limit"]; ok {
		page.Limit = v
	}
	return page, opts
}

// Connect: connect <userID> [interested|ignored]
func (a *App) Connect(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return a.fail(errors.New("usage: connect <userID> [interested|ignored]"))
	}
	st := "interested"
	if len(args) > 1 {
		st = args[1]
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	r, err := a.client.Connect(ctx, args[0], st)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Request %s sent (%s)\n", r.ID, r.Status)
	return nil
}

// Review: review <requestID> accepted|rejected
func (a *App) Review(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 2 {
		return a.fail(errors.New("usage: review <requestID> accepted|rejected"))
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	r, err := a.client.Review(ctx, args[0], args[1])
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Request %s is now %s\n", r.ID, r.Status)
	return nil
}

// Received: received [page] [limit] [status=...]
func (a *App) Received(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	page, opts := parseListArgs(args)

	ctx, cancel := a.call(ctx)
	defer cancel()

	list, err := a.client.ListReceived(ctx, opts["status"], page)
	if err != nil {
		return a.fail(err)
	}
	printRequests(a.out, list)
	return nil
}

// Sent: sent [page] [limit] [status=...]
func (a *App) Sent(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	page, opts := parseListArgs(args)

	ctx, cancel := a.call(ctx)
	defer cancel()

	list, err := a.client.ListSent(ctx, opts["status"], page)
	if err != nil {
		return a.fail(err)
	}
	printRequests(a.out, list)
	return nil
}

// Connections: connections [page] [limit]
func (a *App) Connections(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	page, _ := parseListArgs(args)

	ctx, cancel := a.call(ctx)
	defer cancel()

	list, err := a.client.ListConnections(ctx, page)
	if err != nil {
		return a.fail(err)
	}
	printRequests(a.out, list)
	return nil
}

// Status: status <userID>
func (a *App) Status(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return a.fail(errors.New("usage: status <userID>"))
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	st, err := a.client.Status(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	if st.RequestID != "" {
		fmt.Fprintf(a.out, "%s (request %s)\n", st.State, st.RequestID)
	} else {
		fmt.Fprintln(a.out, st.State)
	}
	return nil
}

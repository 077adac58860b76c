package cli

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/api"
)

// Feed: feed [page] [limit] [gender=...] [skill=...]
func (a *App) Feed(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	page, opts := parseListArgs(args)

	ctx, cancel := a.call(ctx)
	defer cancel()

	list, err := a.client.Feed(ctx, &api.FeedRequest{PageParams: page, Gender: opts["gender"], Skill: opts["skill"]})
	if err != nil {
		return a.fail(err)
	}
	printUsers(a.out, list)
	return nil
}

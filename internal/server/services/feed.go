package services

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// FeedFilter narrows the discovery feed. Zero values mean no restriction.
type FeedFilter struct {
	Gender string `validate:"omitempty,oneof=male female other"`
	Skill  string `validate:"omitempty,max=30"`
}

// FeedService computes the discovery feed: every user the viewer has no
// connection request with, in either direction and any status.
type FeedService struct {
	repomanager repomanager.RepositoryManager
	pictures    PictureStore
	log         logging.Logger
}

func NewFeedService(m repomanager.RepositoryManager, pictures PictureStore, log logging.Logger) *FeedService {
	return &FeedService{
		repomanager: m,
		pictures:    pictures,
		log:         log.With("module", "feed"),
	}
}

// Exclusions returns the viewer plus everyone on the other side of a request
// touching the viewer.
func (s *FeedService) Exclusions(ctx context.Context, viewerID string) ([]string, error) {
	repo := s.repomanager.Connections()

	var sentTo, receivedFrom []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sentTo, err = repo.DistinctCounterparts(gctx, viewerID, models.DirectionFrom)
		return err
	})
	g.Go(func() error {
		var err error
		receivedFrom, err = repo.DistinctCounterparts(gctx, viewerID, models.DirectionTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(sentTo)+len(receivedFrom)+1)
	out := make([]string, 0, len(sentTo)+len(receivedFrom)+1)
	for _, ids := range [][]string{{viewerID}, sentTo, receivedFrom} {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// Feed returns one page of undiscovered users, newest profiles first.
func (s *FeedService) Feed(ctx context.Context, viewerID string, filter FeedFilter, page pagination.Page) (*models.UserPage, error) {
	if err := validateStruct(filter); err != nil {
		return nil, err
	}

	excluded, err := s.Exclusions(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	userFilter := models.UserFilter{ExcludeIDs: excluded, Gender: filter.Gender, Skill: filter.Skill}
	repo := s.repomanager.Users()

	var (
		items []models.UserMini
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = repo.FindMany(gctx, userFilter, page.Skip, page.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = repo.Count(gctx, userFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range items {
		resolvePicture(ctx, s.pictures, s.log, &items[i])
	}

	s.log.Debug(ctx, "feed served", "viewer", viewerID, "excluded", len(excluded), "returned", len(items), "total", total)
	return &models.UserPage{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

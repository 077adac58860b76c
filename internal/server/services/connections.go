package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/logging"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devmatch/internal/server/statemachine"
	"golang.org/x/sync/errgroup"
)

// ConnectionService drives the connection request workflow on top of the
// relationship store.
type ConnectionService struct {
	repomanager repomanager.RepositoryManager
	pictures    PictureStore
	log         logging.Logger
	now         func() time.Time
}

func NewConnectionService(m repomanager.RepositoryManager, pictures PictureStore, log logging.Logger) *ConnectionService {
	return &ConnectionService{
		repomanager: m,
		pictures:    pictures,
		log:         log.With("module", "connections"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Connect creates a request from one user to another with an initial
// status of interested or ignored.
func (s *ConnectionService) Connect(ctx context.Context, fromUserID, toUserID string, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	if fromUserID == toUserID {
		return nil, common.ErrSelfReference
	}
	if err := statemachine.ValidateInitial(status); err != nil {
		return nil, err
	}

	r, err := s.repomanager.Connections().Create(ctx, &models.ConnectionRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "connection request created", "request_id", r.ID, "from", fromUserID, "to", toUserID, "status", status)
	return r, nil
}

// Review lets the recipient of an interested request accept or reject it.
// Failures come in the order ErrorNotFound, ErrForbidden,
// ErrInvalidTransition.
func (s *ConnectionService) Review(ctx context.Context, requestID, actingUserID string, decision models.ConnectionStatus) (*models.ConnectionRequest, error) {
	r, err := s.repomanager.Connections().UpdateStatus(ctx, requestID, decision, actingUserID, s.now())
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "connection request reviewed", "request_id", r.ID, "by", actingUserID, "status", decision)
	return r, nil
}

// ListReceived lists requests addressed to userID. An empty status means
// interested, the only reviewable state.
func (s *ConnectionService) ListReceived(ctx context.Context, userID string, status models.ConnectionStatus, page pagination.Page) (*models.RequestPage, error) {
	if status == "" {
		status = models.StatusInterested
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}
	return s.list(ctx, userID, models.ListFilter{Direction: models.DirectionTo, Status: status}, page)
}

// ListSent lists requests userID sent. An empty status matches all.
func (s *ConnectionService) ListSent(ctx context.Context, userID string, status models.ConnectionStatus, page pagination.Page) (*models.RequestPage, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}
	return s.list(ctx, userID, models.ListFilter{Direction: models.DirectionFrom, Status: status}, page)
}

// ListConnections lists accepted requests on either side of userID together
// with the counterpart's profile.
func (s *ConnectionService) ListConnections(ctx context.Context, userID string, page pagination.Page) (*models.RequestPage, error) {
	return s.list(ctx, userID, models.ListFilter{Direction: models.DirectionAny, Status: models.StatusAccepted}, page)
}

func (s *ConnectionService) list(ctx context.Context, userID string, filter models.ListFilter, page pagination.Page) (*models.RequestPage, error) {
	filter.Skip, filter.Limit = page.Skip, page.Limit
	repo := s.repomanager.Connections()

	var (
		requests []*models.ConnectionRequest
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requests, err = repo.ListForUser(gctx, userID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = repo.CountForUser(gctx, userID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.Counterpart(userID))
	}
	minis, err := s.repomanager.Users().FindMiniByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.RequestWithUser, 0, len(requests))
	for _, r := range requests {
		other := r.Counterpart(userID)
		m, ok := minis[other]
		if !ok {
			// the directory lost the user; keep the edge with the bare id
			m = models.UserMini{ID: other}
		}
		resolvePicture(ctx, s.pictures, s.log, &m)
		items = append(items, models.RequestWithUser{Request: r, User: m})
	}

	return &models.RequestPage{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// Status describes the pair {viewer, other} from the viewer's side.
func (s *ConnectionService) Status(ctx context.Context, viewerID, otherID string) (*models.Relation, error) {
	if viewerID == otherID {
		return nil, common.ErrSelfReference
	}

	r, err := s.repomanager.Connections().FindByUnorderedPair(ctx, viewerID, otherID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		ok, err := s.repomanager.Users().Exists(ctx, otherID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.ErrorNotFound
		}
		return &models.Relation{State: models.RelationNone}, nil
	}

	rel := &models.Relation{RequestID: r.ID}
	switch r.Status {
	case models.StatusAccepted:
		rel.State = models.RelationConnected
	case models.StatusRejected:
		rel.State = models.RelationRejected
	case models.StatusIgnored:
		rel.State = models.RelationIgnored
	default:
		if r.FromUserID == viewerID {
			rel.State = models.RelationSent
		} else {
			rel.State = models.RelationReceived
		}
	}
	return rel, nil
}

// Package connections is the relationship store. Every backend enforces the
// two structural invariants itself: no self-requests and at most one request
// per unordered pair of users.
package connections

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/statemachine"
)

type Repository interface {
	// Create persists r with a fresh id and CreatedAt = UpdatedAt = now.
	// Fails with ErrSelfReference, ErrDuplicateRelationship or ErrUnknownUser.
	Create(ctx context.Context, r *models.ConnectionRequest) (*models.ConnectionRequest, error)
	FindByUnorderedPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error)
	FindByID(ctx context.Context, id string) (*models.ConnectionRequest, error)
	// UpdateStatus moves an interested request addressed to actor into
	// status in a single conditional write. Fails with ErrorNotFound,
	// ErrForbidden or ErrInvalidTransition, checked in that order.
	UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus, actor string, now time.Time) (*models.ConnectionRequest, error)
	ListForUser(ctx context.Context, userID string, filter models.ListFilter) ([]*models.ConnectionRequest, error)
	CountForUser(ctx context.Context, userID string, filter models.ListFilter) (int64, error)
	// DistinctCounterparts returns the other side of every request where
	// userID occupies role (DirectionFrom or DirectionTo).
	DistinctCounterparts(ctx context.Context, userID string, role models.Direction) ([]string, error)
	// DeleteForUser removes every request userID takes part in and reports
	// how many went. Only account deletion calls it.
	DeleteForUser(ctx context.Context, userID string) (int64, error)
}

// UserChecker resolves user ids against the directory. Backends without
// foreign keys use it to report ErrUnknownUser.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// PairKey is the canonical key of the unordered pair {a, b}.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// rejectionReason explains why a conditional review write matched nothing,
// given the record as it is now stored.
func rejectionReason(current *models.ConnectionRequest, actor string, status models.ConnectionStatus) error {
	scratch := *current
	if err := statemachine.Review(&scratch, actor, status, time.Time{}); err != nil {
		return err
	}
	// the record became reviewable again between the write and the read
	return fmt.Errorf("%w: concurrent update", common.ErrInvalidTransition)
}

func checkUsers(ctx context.Context, users UserChecker, ids ...string) error {
	for _, id := range ids {
		ok, err := users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", common.ErrUnknownUser, id)
		}
	}
	return nil
}

func checkRole(role models.Direction) error {
	if role != models.DirectionFrom && role != models.DirectionTo {
		return fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	return nil
}

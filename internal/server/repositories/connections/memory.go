package connections

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/statemachine"
	"github.com/google/uuid"
)

// MemoryRepository holds requests in process memory. The pair map and the
// record map change under one lock, so the pair check and the insert are a
// single step.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.ConnectionRequest
	pairs map[string]string
	users UserChecker
	now   func() time.Time
}

func NewMemoryRepository(users UserChecker) *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[string]*models.ConnectionRequest),
		pairs: make(map[string]string),
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at.
func (m *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	m.now = now
	return m
}

func cp(r *models.ConnectionRequest) *models.ConnectionRequest {
	c := *r
	return &c
}

func (m *MemoryRepository) Create(ctx context.Context, r *models.ConnectionRequest) (*models.ConnectionRequest, error) {
	if r.FromUserID == r.ToUserID {
		return nil, common.ErrSelfReference
	}
	if err := checkUsers(ctx, m.users, r.FromUserID, r.ToUserID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := PairKey(r.FromUserID, r.ToUserID)
	if _, ok := m.pairs[key]; ok {
		return nil, common.ErrDuplicateRelationship
	}

	now := m.now()
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = now, now

	m.byID[r.ID] = cp(r)
	m.pairs[key] = r.ID
	return r, nil
}

func (m *MemoryRepository) FindByUnorderedPair(_ context.Context, a, b string) (*models.ConnectionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.pairs[PairKey(a, b)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cp(m.byID[id]), nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id string) (*models.ConnectionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cp(r), nil
}

func (m *MemoryRepository) UpdateStatus(_ context.Context, id string, status models.ConnectionStatus, actor string, now time.Time) (*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := statemachine.Review(r, actor, status, now); err != nil {
		return nil, err
	}
	return cp(r), nil
}

func matches(r *models.ConnectionRequest, userID string, filter models.ListFilter) bool {
	switch filter.Direction {
	case models.DirectionFrom:
		if r.FromUserID != userID {
			return false
		}
	case models.DirectionTo:
		if r.ToUserID != userID {
			return false
		}
	default:
		if r.FromUserID != userID && r.ToUserID != userID {
			return false
		}
	}
	return filter.Status == "" || r.Status == filter.Status
}

func (m *MemoryRepository) selectFor(userID string, filter models.ListFilter) ([]*models.ConnectionRequest, error) {
	switch filter.Direction {
	case models.DirectionFrom, models.DirectionTo, models.DirectionAny, "":
	default:
		return nil, checkRole(filter.Direction)
	}
	var out []*models.ConnectionRequest
	for _, r := range m.byID {
		if matches(r, userID, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListForUser(_ context.Context, userID string, filter models.ListFilter) ([]*models.ConnectionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	selected, err := m.selectFor(userID, filter)
	if err != nil {
		return nil, err
	}
	if err := pagination.CheckWindow(filter.Skip, filter.Limit); err != nil {
		return nil, err
	}
	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].CreatedAt.Equal(selected[j].CreatedAt) {
			return selected[i].CreatedAt.After(selected[j].CreatedAt)
		}
		return selected[i].ID > selected[j].ID
	})

	out := []*models.ConnectionRequest{}
	for i := filter.Skip; i < int64(len(selected)) && int64(len(out)) < filter.Limit; i++ {
		out = append(out, cp(selected[i]))
	}
	return out, nil
}

func (m *MemoryRepository) CountForUser(_ context.Context, userID string, filter models.ListFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	selected, err := m.selectFor(userID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(selected)), nil
}

func (m *MemoryRepository) DistinctCounterparts(_ context.Context, userID string, role models.Direction) ([]string, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range m.byID {
		var other string
		switch {
		case role == models.DirectionFrom && r.FromUserID == userID:
			other = r.ToUserID
		case role == models.DirectionTo && r.ToUserID == userID:
			other = r.FromUserID
		default:
			continue
		}
		if _, dup := seen[other]; !dup {
			seen[other] = struct{}{}
			out = append(out, other)
		}
	}
	return out, nil
}

func (m *MemoryRepository) DeleteForUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, r := range m.byID {
		if r.FromUserID != userID && r.ToUserID != userID {
			continue
		}
		delete(m.pairs, PairKey(r.FromUserID, r.ToUserID))
		delete(m.byID, id)
		n++
	}
	return n, nil
}

package users

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It is used by the memory
// storage backend and by service tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at/updated_at.
func (r *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	r.now = now
	return r
}

func clone(u *models.User) *models.User {
	c := *u
	c.Skills = slices.Clone(u.Skills)
	c.PasswordHash = slices.Clone(u.PasswordHash)
	return &c
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, ok := r.byID[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	now := r.now()
	user.CreatedAt, user.UpdatedAt = now, now

	r.byID[user.ID] = clone(user)
	r.byEmail[email] = user.ID
	return user, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

func (r *MemoryRepository) match(filter models.UserFilter) []*models.User {
	excluded := make(map[string]struct{}, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	var out []*models.User
	for _, u := range r.byID {
		if _, skip := excluded[u.ID]; skip {
			continue
		}
		if filter.Gender != "" && u.Gender != filter.Gender {
			continue
		}
		if filter.Skill != "" && !slices.Contains(u.Skills, filter.Skill) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r *MemoryRepository) FindMany(_ context.Context, filter models.UserFilter, skip, limit int64) ([]models.UserMini, error) {
	if err := pagination.CheckWindow(skip, limit); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	items := []models.UserMini{}
	for i := skip; i < int64(len(matched)) && int64(len(items)) < limit; i++ {
		items = append(items, clone(matched[i]).Mini())
	}
	return items, nil
}

func (r *MemoryRepository) Count(_ context.Context, filter models.UserFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

func (r *MemoryRepository) FindMiniByIDs(_ context.Context, ids []string) (map[string]models.UserMini, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.UserMini, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = clone(u).Mini()
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = slices.Clone(upd.PasswordHash)
	}
	if upd.ProfilePic != nil {
		u.ProfilePic = *upd.ProfilePic
	}
	if upd.About != nil {
		u.About = *upd.About
	}
	if upd.Skills != nil {
		u.Skills = slices.Clone(*upd.Skills)
	}
	u.UpdatedAt = r.now()
	return clone(u), nil
}

func (r *MemoryRepository) SetPhotoKey(_ context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PhotoKey = key
	u.UpdatedAt = r.now()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, strings.ToLower(u.Email))
	delete(r.byID, id)
	return nil
}

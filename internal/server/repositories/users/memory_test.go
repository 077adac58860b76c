package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances by one second per call.
func steppingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func seed(t *testing.T, r *MemoryRepository, n int) []*models.User {
	t.Helper()
	out := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		gender := models.GenderMale
		if i%2 == 0 {
			gender = models.GenderFemale
		}
		u, err := r.Create(context.Background(), &models.User{
			FirstName: fmt.Sprintf("User%02d", i),
			LastName:  "Test",
			Email:     fmt.Sprintf("user%02d@example.com", i),
			Gender:    gender,
			Skills:    []string{fmt.Sprintf("skill%d", i%3)},
		})
		require.NoError(t, err)
		out = append(out, u)
	}
	return out
}

func TestMemory_CreateAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{FirstName: "Alice", Email: "Alice@Example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = r.Create(ctx, &models.User{FirstName: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got.FirstName = "mutated"
	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FirstName)

	ok, err := r.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_FindManyOrderingAndPaging(t *testing.T) {
	r := NewMemoryRepository().WithClock(steppingClock())
	users := seed(t, r, 25)
	ctx := context.Background()

	filter := models.UserFilter{ExcludeIDs: []string{users[24].ID}}

	page1, err := r.FindMany(ctx, filter, 0, 10)
	require.NoError(t, err)
	page2, err := r.FindMany(ctx, filter, 10, 10)
	require.NoError(t, err)
	page3, err := r.FindMany(ctx, filter, 20, 10)
	require.NoError(t, err)

	require.Len(t, page1, 10)
	require.Len(t, page2, 10)
	require.Len(t, page3, 4)

	// newest first, excluded user absent
	assert.Equal(t, users[23].ID, page1[0].ID)
	assert.Equal(t, users[13].ID, page2[0].ID)
	assert.Equal(t, users[0].ID, page3[3].ID)

	n, err := r.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(24), n)
}

func TestMemory_FindManyFilters(t *testing.T) {
	r := NewMemoryRepository().WithClock(steppingClock())
	seed(t, r, 6)
	ctx := context.Background()

	females, err := r.FindMany(ctx, models.UserFilter{Gender: models.GenderFemale}, 0, 50)
	require.NoError(t, err)
	assert.Len(t, females, 3)

	skilled, err := r.FindMany(ctx, models.UserFilter{Skill: "skill1"}, 0, 50)
	require.NoError(t, err)
	assert.Len(t, skilled, 2)

	n, err := r.Count(ctx, models.UserFilter{Gender: models.GenderMale, Skill: "skill1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemory_TiesBrokenByID(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRepository().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	for _, id := range []string{"b", "c", "a"} {
		_, err := r.Create(ctx, &models.User{ID: id, Email: id + "@x.io"})
		require.NoError(t, err)
	}

	items, err := r.FindMany(ctx, models.UserFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestMemory_UpdateProfileAndPhoto(t *testing.T) {
	r := NewMemoryRepository().WithClock(steppingClock())
	users := seed(t, r, 2)
	ctx := context.Background()

	about := "Gopher"
	skills := []string{"go", "k8s"}
	u, err := r.UpdateProfile(ctx, users[0].ID, models.ProfileUpdate{About: &about, Skills: &skills})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", u.About)
	assert.Equal(t, skills, u.Skills)
	assert.True(t, u.UpdatedAt.After(u.CreatedAt))

	require.NoError(t, r.SetPhotoKey(ctx, users[1].ID, "avatars/1"))
	minis, err := r.FindMiniByIDs(ctx, []string{users[1].ID, "ghost"})
	require.NoError(t, err)
	require.Len(t, minis, 1)
	assert.Equal(t, "avatars/1", minis[users[1].ID].PhotoKey)

	_, err = r.UpdateProfile(ctx, "ghost", models.ProfileUpdate{About: &about})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.SetPhotoKey(ctx, "ghost", "k"), common.ErrorNotFound)
}

func TestMemory_FindManyRejectsBadWindow(t *testing.T) {
	r := NewMemoryRepository().WithClock(steppingClock())
	seed(t, r, 3)

	_, err := r.FindMany(context.Background(), models.UserFilter{}, -100, 50)
	assert.ErrorIs(t, err, common.ErrInvalidPagination)

	_, err = r.FindMany(context.Background(), models.UserFilter{}, 0, 0)
	assert.ErrorIs(t, err, common.ErrInvalidPagination)
}

func TestMemory_Delete(t *testing.T) {
	r := NewMemoryRepository().WithClock(steppingClock())
	users := seed(t, r, 2)
	ctx := context.Background()

	require.NoError(t, r.Delete(ctx, users[0].ID))
	assert.ErrorIs(t, r.Delete(ctx, users[0].ID), common.ErrorNotFound)

	ok, err := r.Exists(ctx, users[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = r.GetByEmail(ctx, users[0].Email)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	n, err := r.Count(ctx, models.UserFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

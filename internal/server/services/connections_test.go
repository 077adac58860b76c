package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "alice", models.GenderFemale)
	b := f.register(t, "bob", models.GenderMale)
	c := f.register(t, "carol", models.GenderFemale)

	r, err := f.connections.Connect(ctx, a.ID, b.ID, models.StatusInterested)
	require.NoError(t, err)
	assert.Equal(t, a.ID, r.FromUserID)
	assert.Equal(t, b.ID, r.ToUserID)
	assert.Equal(t, models.StatusInterested, r.Status)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)

	t.Run("same direction again", func(t *testing.T) {
		_, err := f.connections.Connect(ctx, a.ID, b.ID, models.StatusIgnored)
		assert.ErrorIs(t, err, common.ErrDuplicateRelationship)
	})

	t.Run("reverse direction", func(t *testing.T) {
		_, err := f.connections.Connect(ctx, b.ID, a.ID, models.StatusInterested)
		assert.ErrorIs(t, err, common.ErrDuplicateRelationship)
	})

	t.Run("self", func(t *testing.T) {
		for _, s := range []models.ConnectionStatus{models.StatusInterested, models.StatusAccepted, "bogus"} {
			_, err := f.connections.Connect(ctx, a.ID, a.ID, s)
			assert.ErrorIs(t, err, common.ErrSelfReference)
		}
	})

	t.Run("status not allowed at creation", func(t *testing.T) {
		for _, s := range []models.ConnectionStatus{models.StatusAccepted, models.StatusRejected, "", "bogus"} {
			_, err := f.connections.Connect(ctx, a.ID, c.ID, s)
			assert.ErrorIs(t, err, common.ErrInvalidTransition)
		}
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := f.connections.Connect(ctx, a.ID, uuid.NewString(), models.StatusInterested)
		assert.ErrorIs(t, err, common.ErrUnknownUser)
	})

	t.Run("ignored is a valid start", func(t *testing.T) {
		r, err := f.connections.Connect(ctx, c.ID, a.ID, models.StatusIgnored)
		require.NoError(t, err)
		assert.Equal(t, models.StatusIgnored, r.Status)
	})
}

func TestReview(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, s models.ConnectionStatus) (*fixture, *models.User, *models.User, *models.ConnectionRequest) {
		f := newFixture(t, nil)
		a := f.register(t, "alice", models.GenderFemale)
		b := f.register(t, "bob", models.GenderMale)
		r, err := f.connections.Connect(ctx, a.ID, b.ID, s)
		require.NoError(t, err)
		return f, a, b, r
	}

	t.Run("recipient accepts", func(t *testing.T) {
		f, _, b, r := setup(t, models.StatusInterested)
		got, err := f.connections.Review(ctx, r.ID, b.ID, models.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAccepted, got.Status)
		assert.Equal(t, r.FromUserID, got.FromUserID)
		assert.Equal(t, r.CreatedAt, got.CreatedAt)
		assert.False(t, got.UpdatedAt.Before(r.UpdatedAt))
	})

	t.Run("recipient rejects", func(t *testing.T) {
		f, _, b, r := setup(t, models.StatusInterested)
		got, err := f.connections.Review(ctx, r.ID, b.ID, models.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})

	t.Run("sender cannot review", func(t *testing.T) {
		f, a, _, r := setup(t, models.StatusInterested)
		_, err := f.connections.Review(ctx, r.ID, a.ID, models.StatusAccepted)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("bystander cannot review", func(t *testing.T) {
		f, _, _, r := setup(t, models.StatusInterested)
		c := f.register(t, "carol", models.GenderFemale)
		_, err := f.connections.Review(ctx, r.ID, c.ID, models.StatusAccepted)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("closed requests stay forbidden to others", func(t *testing.T) {
		f, a, b, r := setup(t, models.StatusIgnored)
		c := f.register(t, "carol", models.GenderFemale)
		for _, actor := range []string{a.ID, c.ID} {
			_, err := f.connections.Review(ctx, r.ID, actor, models.StatusAccepted)
			assert.ErrorIs(t, err, common.ErrForbidden)
			assert.NotErrorIs(t, err, common.ErrInvalidTransition)
		}

		_, err := f.connections.Review(ctx, r.ID, b.ID, models.StatusRejected)
		require.ErrorIs(t, err, common.ErrInvalidTransition)
		_, err = f.connections.Review(ctx, r.ID, c.ID, models.StatusAccepted)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("accepted request is forbidden to a bystander", func(t *testing.T) {
		f, _, b, r := setup(t, models.StatusInterested)
		c := f.register(t, "carol", models.GenderFemale)
		_, err := f.connections.Review(ctx, r.ID, b.ID, models.StatusAccepted)
		require.NoError(t, err)
		_, err = f.connections.Review(ctx, r.ID, c.ID, models.StatusRejected)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("ignored is terminal", func(t *testing.T) {
		f, _, b, r := setup(t, models.StatusIgnored)
		_, err := f.connections.Review(ctx, r.ID, b.ID, models.StatusAccepted)
		assert.ErrorIs(t, err, common.ErrInvalidTransition)
	})

	t.Run("second review", func(t *testing.T) {
		f, _, b, r := setup(t, models.StatusInterested)
		_, err := f.connections.Review(ctx, r.ID, b.ID, models.StatusAccepted)
		require.NoError(t, err)
		for _, d := range []models.ConnectionStatus{models.StatusAccepted, models.StatusRejected} {
			_, err = f.connections.Review(ctx, r.ID, b.ID, d)
			assert.ErrorIs(t, err, common.ErrInvalidTransition)
		}
	})

	t.Run("decision must be accepted or rejected", func(t *testing.T) {
		f, _, b, r := setup(t, models.StatusInterested)
		for _, d := range []models.ConnectionStatus{models.StatusInterested, models.StatusIgnored, "maybe"} {
			_, err := f.connections.Review(ctx, r.ID, b.ID, d)
			assert.ErrorIs(t, err, common.ErrInvalidTransition)
		}
	})

	t.Run("missing request", func(t *testing.T) {
		f, _, b, _ := setup(t, models.StatusInterested)
		_, err := f.connections.Review(ctx, uuid.NewString(), b.ID, models.StatusAccepted)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("missing request with a bad decision", func(t *testing.T) {
		f, _, b, _ := setup(t, models.StatusInterested)
		for _, d := range []models.ConnectionStatus{"maybe", models.StatusIgnored} {
			_, err := f.connections.Review(ctx, uuid.NewString(), b.ID, d)
			assert.ErrorIs(t, err, common.ErrorNotFound)
		}
	})

	t.Run("non-recipient with a bad decision", func(t *testing.T) {
		f, a, _, r := setup(t, models.StatusInterested)
		_, err := f.connections.Review(ctx, r.ID, a.ID, "maybe")
		assert.ErrorIs(t, err, common.ErrForbidden)
	})
}

func TestListReceived(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "alice", models.GenderFemale)
	b := f.register(t, "bob", models.GenderMale)
	c := f.register(t, "carol", models.GenderFemale)
	d := f.register(t, "dave", models.GenderMale)

	_, err := f.connections.Connect(ctx, b.ID, a.ID, models.StatusInterested)
	require.NoError(t, err)
	_, err = f.connections.Connect(ctx, c.ID, a.ID, models.StatusInterested)
	require.NoError(t, err)
	_, err = f.connections.Connect(ctx, d.ID, a.ID, models.StatusIgnored)
	require.NoError(t, err)

	got, err := f.connections.ListReceived(ctx, a.ID, "", page(t, "", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Total)
	assert.EqualValues(t, 1, got.Page)
	assert.EqualValues(t, 10, got.Limit)

	senders := map[string]string{}
	for _, it := range got.Items {
		assert.Equal(t, a.ID, it.Request.ToUserID)
		assert.Equal(t, models.StatusInterested, it.Request.Status)
		senders[it.User.ID] = it.User.FirstName
	}
	assert.Equal(t, map[string]string{b.ID: "bob", c.ID: "carol"}, senders)

	ignored, err := f.connections.ListReceived(ctx, a.ID, models.StatusIgnored, page(t, "", ""))
	require.NoError(t, err)
	require.Len(t, ignored.Items, 1)
	assert.Equal(t, d.ID, ignored.Items[0].User.ID)

	_, err = f.connections.ListReceived(ctx, a.ID, "pending", page(t, "", ""))
	assert.ErrorIs(t, err, common.ErrValidation)

	one, err := f.connections.ListReceived(ctx, a.ID, "", page(t, "2", "1"))
	require.NoError(t, err)
	assert.Len(t, one.Items, 1)
	assert.EqualValues(t, 2, one.Total)
}

func TestListSent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "alice", models.GenderFemale)
	b := f.register(t, "bob", models.GenderMale)
	c := f.register(t, "carol", models.GenderFemale)

	_, err := f.connections.Connect(ctx, a.ID, b.ID, models.StatusInterested)
	require.NoError(t, err)
	_, err = f.connections.Connect(ctx, a.ID, c.ID, models.StatusIgnored)
	require.NoError(t, err)

	all, err := f.connections.ListSent(ctx, a.ID, "", page(t, "", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	onlyIgnored, err := f.connections.ListSent(ctx, a.ID, models.StatusIgnored, page(t, "", ""))
	require.NoError(t, err)
	require.Len(t, onlyIgnored.Items, 1)
	assert.Equal(t, c.ID, onlyIgnored.Items[0].User.ID)

	none, err := f.connections.ListSent(ctx, b.ID, "", page(t, "", ""))
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Zero(t, none.Total)

	_, err = f.connections.ListSent(ctx, a.ID, "nope", page(t, "", ""))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestListConnections(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "alice", models.GenderFemale)
	b := f.register(t, "bob", models.GenderMale)
	c := f.register(t, "carol", models.GenderFemale)
	d := f.register(t, "dave", models.GenderMale)

	ab, err := f.connections.Connect(ctx, a.ID, b.ID, models.StatusInterested)
	require.NoError(t, err)
	ca, err := f.connections.Connect(ctx, c.ID, a.ID, models.StatusInterested)
	require.NoError(t, err)
	ad, err := f.connections.Connect(ctx, a.ID, d.ID, models.StatusInterested)
	require.NoError(t, err)

	_, err = f.connections.Review(ctx, ab.ID, b.ID, models.StatusAccepted)
	require.NoError(t, err)
	_, err = f.connections.Review(ctx, ca.ID, a.ID, models.StatusAccepted)
	require.NoError(t, err)
	_, err = f.connections.Review(ctx, ad.ID, d.ID, models.StatusRejected)
	require.NoError(t, err)

	got, err := f.connections.ListConnections(ctx, a.ID, page(t, "", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Total)

	var others []string
	for _, it := range got.Items {
		assert.Equal(t, models.StatusAccepted, it.Request.Status)
		others = append(others, it.User.ID)
	}
	assert.ElementsMatch(t, []string{b.ID, c.ID}, others)

	fromB, err := f.connections.ListConnections(ctx, b.ID, page(t, "", ""))
	require.NoError(t, err)
	require.Len(t, fromB.Items, 1)
	assert.Equal(t, a.ID, fromB.Items[0].User.ID)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "alice", models.GenderFemale)
	b := f.register(t, "bob", models.GenderMale)
	c := f.register(t, "carol", models.GenderFemale)
	d := f.register(t, "dave", models.GenderMale)
	e := f.register(t, "erin", models.GenderOther)

	rel, err := f.connections.Status(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationNone, rel.State)
	assert.Empty(t, rel.RequestID)

	ab, err := f.connections.Connect(ctx, a.ID, b.ID, models.StatusInterested)
	require.NoError(t, err)

	rel, err = f.connections.Status(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.Relation{State: models.RelationSent, RequestID: ab.ID}, rel)

	rel, err = f.connections.Status(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationReceived, rel.State)

	_, err = f.connections.Review(ctx, ab.ID, b.ID, models.StatusAccepted)
	require.NoError(t, err)
	rel, err = f.connections.Status(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationConnected, rel.State)

	_, err = f.connections.Connect(ctx, a.ID, c.ID, models.StatusIgnored)
	require.NoError(t, err)
	rel, err = f.connections.Status(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationIgnored, rel.State)

	ad, err := f.connections.Connect(ctx, a.ID, d.ID, models.StatusInterested)
	require.NoError(t, err)
	_, err = f.connections.Review(ctx, ad.ID, d.ID, models.StatusRejected)
	require.NoError(t, err)
	rel, err = f.connections.Status(ctx, a.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationRejected, rel.State)

	_, err = f.connections.Status(ctx, e.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrSelfReference)

	_, err = f.connections.Status(ctx, e.ID, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestScenario_AcceptThenFeed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "alice", models.GenderFemale)
	b := f.register(t, "bob", models.GenderMale)
	c := f.register(t, "carol", models.GenderFemale)

	r, err := f.connections.Connect(ctx, a.ID, b.ID, models.StatusInterested)
	require.NoError(t, err)

	received, err := f.connections.ListReceived(ctx, b.ID, "", page(t, "", ""))
	require.NoError(t, err)
	require.Len(t, received.Items, 1)
	assert.Equal(t, a.ID, received.Items[0].User.ID)

	_, err = f.connections.Review(ctx, r.ID, b.ID, models.StatusAccepted)
	require.NoError(t, err)

	received, err = f.connections.ListReceived(ctx, b.ID, "", page(t, "", ""))
	require.NoError(t, err)
	assert.Empty(t, received.Items)

	conns, err := f.connections.ListConnections(ctx, b.ID, page(t, "", ""))
	require.NoError(t, err)
	require.Len(t, conns.Items, 1)
	assert.Equal(t, a.ID, conns.Items[0].User.ID)

	feed, err := f.feed.Feed(ctx, a.ID, FeedFilter{}, page(t, "", ""))
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, c.ID, feed.Items[0].ID)
}
